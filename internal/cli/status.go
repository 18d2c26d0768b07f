package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"safetyhub/internal/app"
	"safetyhub/internal/types"
)

type statusOptions struct {
	serviceOptions
	User     string
	Profiles []string
	Refresh  bool
}

func newStatusCommand() *cobra.Command {
	opts := statusOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the aggregated safety view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd, opts)
		},
	}
	addServiceFlags(cmd, &opts.serviceOptions)
	cmd.Flags().StringVar(&opts.User, "user", "0", "Primary user id")
	cmd.Flags().StringSliceVar(&opts.Profiles, "profile", nil, "Managed profile (user or user:stopped)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", true, "Refresh sources before printing")
	_ = viper.BindPFlag("user", cmd.Flags().Lookup("user"))
	return cmd
}

func runStatus(ctx context.Context, cmd *cobra.Command, opts statusOptions) error {
	service, err := newAppService(ctx, cmd, opts.serviceOptions)
	if err != nil {
		return err
	}
	user := resolveString(cmd, opts.User, "user", "user")
	managed := parseProfiles(opts.Profiles)

	if opts.Refresh && service.Enabled() {
		outcome, err := service.Refresh(ctx, app.RefreshRequest{
			Reason:  types.RefreshReasonPageOpen,
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

	printView(service.View(user, managed))
	return nil
}

func printView(view types.View) {
	fmt.Printf("%s [%s]\n", view.Status.Title, view.Status.Severity)
	fmt.Printf("  %s\n", view.Status.Summary)

	if len(view.Issues) > 0 {
		fmt.Println("issues:")
		for _, issue := range view.Issues {
			fmt.Printf("- [%s] %s (%s)\n", issue.Severity, issue.Title, issue.Key.Encode())
			if issue.Summary != "" {
				fmt.Printf("  %s\n", issue.Summary)
			}
			for _, action := range issue.Actions {
				marker := ""
				if action.InFlight {
					marker = " (in progress)"
				}
				fmt.Printf("  * %s%s\n", action.Label, marker)
			}
		}
	}

	if len(view.Entries) > 0 {
		fmt.Println("entries:")
		for _, item := range view.Entries {
			if item.Group != nil {
				fmt.Printf("- %s [%s]: %s\n", item.Group.Title, item.Group.Severity, item.Group.Summary)
				for _, entry := range item.Group.Entries {
					printEntry(entry, "  ")
				}
				continue
			}
			if item.Entry != nil {
				printEntry(*item.Entry, "")
			}
		}
	}

	for _, group := range view.StaticGroups {
		fmt.Printf("%s:\n", group.Title)
		for _, entry := range group.Entries {
			fmt.Printf("- %s: %s\n", entry.Title, entry.Summary)
		}
	}
}

func printEntry(entry types.Entry, indent string) {
	state := ""
	if !entry.Enabled {
		state = " (disabled)"
	}
	fmt.Printf("%s- %s [%s]%s: %s\n", indent, entry.Title, entry.Severity, state, entry.Summary)
}
