package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errDisabled carries no error code on purpose: the shell contract for
// this command is exit 0 when enabled, exit 1 when disabled.
var errDisabled = errors.New("disabled")

func newEnabledCommand() *cobra.Command {
	opts := serviceOptions{}
	cmd := &cobra.Command{
		Use:   "enabled",
		Short: "Report whether the engine is enabled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnabled(cmd, opts)
		},
	}
	addServiceFlags(cmd, &opts)
	return cmd
}

func runEnabled(cmd *cobra.Command, opts serviceOptions) error {
	service, err := newAppService(cmd.Context(), cmd, opts)
	if err != nil {
		return err
	}
	if !service.Enabled() {
		return errDisabled
	}
	fmt.Println("enabled")
	return nil
}
