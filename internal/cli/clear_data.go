package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type clearDataOptions struct {
	serviceOptions
	User string
}

func newClearDataCommand() *cobra.Command {
	opts := clearDataOptions{}
	cmd := &cobra.Command{
		Use:   "clear-data",
		Short: "Wipe reports, dismissals and refresh state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClearData(cmd.Context(), cmd, opts)
		},
	}
	addServiceFlags(cmd, &opts.serviceOptions)
	cmd.Flags().StringVar(&opts.User, "user", "", "Clear one user only")
	_ = viper.BindPFlag("user", cmd.Flags().Lookup("user"))
	return cmd
}

func runClearData(ctx context.Context, cmd *cobra.Command, opts clearDataOptions) error {
	service, err := newAppService(ctx, cmd, opts.serviceOptions)
	if err != nil {
		return err
	}
	user := resolveString(cmd, opts.User, "user", "user")
	if user != "" {
		if err := service.ClearForUser(user); err != nil {
			return err
		}
		fmt.Printf("cleared data for user %s\n", user)
		return nil
	}
	if err := service.ClearData(); err != nil {
		return err
	}
	fmt.Println("cleared all data")
	return nil
}
