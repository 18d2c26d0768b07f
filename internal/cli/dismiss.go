package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"safetyhub/internal/app"
	"safetyhub/internal/types"
)

type dismissOptions struct {
	serviceOptions
	User     string
	Profiles []string
}

func newDismissCommand() *cobra.Command {
	opts := dismissOptions{}
	cmd := &cobra.Command{
		Use:   "dismiss <source:issue:user>",
		Short: "Dismiss an issue at its current severity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDismiss(cmd.Context(), cmd, opts, args[0])
		},
	}
	addServiceFlags(cmd, &opts.serviceOptions)
	cmd.Flags().StringVar(&opts.User, "user", "0", "Primary user id")
	cmd.Flags().StringSliceVar(&opts.Profiles, "profile", nil, "Managed profile (user or user:stopped)")
	return cmd
}

func runDismiss(ctx context.Context, cmd *cobra.Command, opts dismissOptions, encoded string) error {
	key, err := types.DecodeIssueKey(encoded)
	if err != nil {
		return err
	}
	service, err := newAppService(ctx, cmd, opts.serviceOptions)
	if err != nil {
		return err
	}

	// The engine starts empty, so fetch reports first: a dismissal needs
	// the issue's currently reported severity.
	outcome, err := service.Refresh(ctx, app.RefreshRequest{
		Reason:  types.RefreshReasonOther,
		User:    resolveString(cmd, opts.User, "user", "user"),
		Managed: parseProfiles(opts.Profiles),
	})
	if err != nil {
		return err
	}
	if err := service.Await(ctx, outcome.SessionID); err != nil {
		return err
	}

	if err := service.Dismiss(key); err != nil {
		return err
	}
	fmt.Printf("dismissed %s\n", key.Encode())
	return nil
}
