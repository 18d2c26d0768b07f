package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"safetyhub/internal/adapters"
	"safetyhub/internal/app"
	"safetyhub/internal/ports"
	"safetyhub/internal/types"
)

type serviceOptions struct {
	Registry string
	Store    string
	Reports  string
	Timeout  time.Duration
}

func addServiceFlags(cmd *cobra.Command, opts *serviceOptions) {
	cmd.Flags().StringVar(&opts.Registry, "registry", "safetyhub-registry.yaml", "Source registry file")
	cmd.Flags().StringVar(&opts.Store, "store", "safetyhub-issues.yaml", "Dismissal store file")
	cmd.Flags().StringVar(&opts.Reports, "reports", "", "Canned source reports file")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "Refresh timeout")
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))
	_ = viper.BindPFlag("store", cmd.Flags().Lookup("store"))
	_ = viper.BindPFlag("reports", cmd.Flags().Lookup("reports"))
	_ = viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
}

// newAppService builds the engine from the command's flags and config,
// wires the in-process transport from the canned reports file and starts
// the inbox consumer.
func newAppService(ctx context.Context, cmd *cobra.Command, opts serviceOptions) (*app.Service, error) {
	reportsPath := resolveString(cmd, opts.Reports, "reports", "reports")
	var reports []adapters.CannedReport
	if reportsPath != "" {
		loaded, err := adapters.LoadCannedReports(reportsPath)
		if err != nil {
			return nil, err
		}
		reports = loaded
	}

	service, err := app.NewService(ctx, app.Options{
		RegistryPath:       resolveString(cmd, opts.Registry, "registry", "registry"),
		DismissalStorePath: resolveString(cmd, opts.Store, "store", "store"),
		RefreshTimeout:     resolveDuration(cmd, opts.Timeout, "timeout", "timeout"),
		Transport: func(inbox chan<- types.SourceResponse) ports.TransportPort {
			transport := adapters.NewInprocTransport(inbox)
			adapters.RegisterCannedReports(transport, reports)
			return transport
		},
	})
	if err != nil {
		return nil, err
	}
	go service.Run(ctx)
	return service, nil
}
