package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"safetyhub/internal/types"
)

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return value
}

func resolveDuration(cmd *cobra.Command, value time.Duration, key string, flagName string) time.Duration {
	if cmd == nil || flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}

// parseProfiles turns "--profile work" / "--profile work:stopped" values
// into managed profiles. Profiles are running unless marked stopped.
func parseProfiles(values []string) []types.ManagedProfile {
	var out []types.ManagedProfile
	for _, value := range values {
		userID, state, _ := strings.Cut(value, ":")
		if userID == "" {
			continue
		}
		out = append(out, types.ManagedProfile{
			UserID:  userID,
			Running: state != "stopped",
		})
	}
	return out
}
