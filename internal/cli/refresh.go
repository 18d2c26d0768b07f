package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"safetyhub/internal/app"
	"safetyhub/internal/types"
)

type refreshOptions struct {
	serviceOptions
	Reason   string
	User     string
	Profiles []string
	Wait     bool
}

func newRefreshCommand() *cobra.Command {
	opts := refreshOptions{}
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Ask all reporting sources for data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd.Context(), cmd, opts)
		},
	}
	addServiceFlags(cmd, &opts.serviceOptions)
	cmd.Flags().StringVar(&opts.Reason, "reason", string(types.RefreshReasonPageOpen), "Refresh reason")
	cmd.Flags().StringVar(&opts.User, "user", "0", "Primary user id")
	cmd.Flags().StringSliceVar(&opts.Profiles, "profile", nil, "Managed profile (user or user:stopped)")
	cmd.Flags().BoolVar(&opts.Wait, "wait", true, "Wait for the refresh to complete or time out")
	_ = viper.BindPFlag("reason", cmd.Flags().Lookup("reason"))
	_ = viper.BindPFlag("user", cmd.Flags().Lookup("user"))
	return cmd
}

func runRefresh(ctx context.Context, cmd *cobra.Command, opts refreshOptions) error {
	service, err := newAppService(ctx, cmd, opts.serviceOptions)
	if err != nil {
		return err
	}
	outcome, err := service.Refresh(ctx, app.RefreshRequest{
		Reason:  types.RefreshReason(resolveString(cmd, opts.Reason, "reason", "reason")),
		User:    resolveString(cmd, opts.User, "user", "user"),
		Managed: parseProfiles(opts.Profiles),
	})
	if err != nil {
		return err
	}
	if opts.Wait {
		if err := service.Await(ctx, outcome.SessionID); err != nil {
			return err
		}
	}
	fmt.Printf("refreshed %d sources\n", len(outcome.Sources))
	return nil
}
