package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"safetyhub/internal/app"
	"safetyhub/internal/types"
)

type snapshotOptions struct {
	serviceOptions
	User     string
	Profiles []string
}

func newSnapshotCommand() *cobra.Command {
	opts := snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Emit pull telemetry for the current state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd.Context(), cmd, opts)
		},
	}
	addServiceFlags(cmd, &opts.serviceOptions)
	cmd.Flags().StringVar(&opts.User, "user", "0", "Primary user id")
	cmd.Flags().StringSliceVar(&opts.Profiles, "profile", nil, "Managed profile (user or user:stopped)")
	return cmd
}

func runSnapshot(ctx context.Context, cmd *cobra.Command, opts snapshotOptions) error {
	service, err := newAppService(ctx, cmd, opts.serviceOptions)
	if err != nil {
		return err
	}
	user := resolveString(cmd, opts.User, "user", "user")
	managed := parseProfiles(opts.Profiles)

	if service.Enabled() {
		outcome, err := service.Refresh(ctx, app.RefreshRequest{
			Reason:  types.RefreshReasonOther,
			User:    user,
			Managed: managed,
		})
		if err != nil {
			return err
		}
		if err := service.Await(ctx, outcome.SessionID); err != nil {
			return err
		}
	}

	result := service.Snapshot(user, managed)
	fmt.Printf("overall: %s (%d open, %d dismissed)\n",
		result.Overall.OverallSeverity, result.Overall.OpenIssueCount, result.Overall.DismissedIssueCount)
	for _, source := range result.Sources {
		severity := "none"
		if source.MaxSeverity != nil {
			severity = source.MaxSeverity.String()
		}
		fmt.Printf("- %s user=%s max=%s open=%d dismissed=%d\n",
			source.SourceID, source.UserID, severity, source.OpenIssueCount, source.DismissedIssueCount)
	}
	return nil
}
