package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetyhub/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{
		"enabled", "refresh", "status", "dismiss", "snapshot", "clear-data",
	}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRefreshCommandFlags(t *testing.T) {
	cmd := newRefreshCommand()
	flags := []string{
		"registry", "store", "reports", "timeout",
		"reason", "user", "profile", "wait",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestStatusCommandFlags(t *testing.T) {
	cmd := newStatusCommand()
	flags := []string{"registry", "store", "reports", "timeout", "user", "profile", "refresh"}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

const disabledRegistry = `
enabled: false
groups:
  - id: device-security
    kind: collapsible
    title: Device security
    summary: Overall device security
    sources:
      - id: lockscreen
        type: dynamic
        title: Screen lock
        summary: Protects your device
        default_action: open://lockscreen
        max_severity: critical
`

func TestEnabledCommandExitsOneWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	registry := filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(registry, []byte(disabledRegistry), 0644))

	cmd := newEnabledCommand()
	cmd.SetContext(t.Context())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--registry", registry,
		"--store", filepath.Join(dir, "issues.yaml"),
	})

	err := cmd.Execute()
	require.ErrorIs(t, err, errDisabled)
	assert.Equal(t, 1, exitCodeForError(err))
}

func TestClearDataCommandUserResolution(t *testing.T) {
	t.Cleanup(viper.Reset)

	cmd := newClearDataCommand()
	viper.Set("user", "10")
	assert.Equal(t, "10", resolveString(cmd, "", "user", "user"))

	require.NoError(t, cmd.Flags().Set("user", "11"))
	assert.Equal(t, "11", resolveString(cmd, "11", "user", "user"))
}

// ---------- Helper tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		code errbuilder.ErrCode
		want int
	}{
		{errbuilder.CodeInvalidArgument, 2},
		{errbuilder.CodeAlreadyExists, 2},
		{errbuilder.CodeFailedPrecondition, 3},
		{errbuilder.CodeNotFound, 4},
		{errbuilder.CodeInternal, 5},
	}
	for _, tt := range tests {
		err := errbuilder.New().WithCode(tt.code).WithMsg("boom")
		assert.Equal(t, tt.want, exitCodeForError(err), "code %v", tt.code)
	}
	assert.Equal(t, 1, exitCodeForError(errors.New("boom")))
}

func TestParseProfiles(t *testing.T) {
	got := parseProfiles([]string{"10", "11:stopped", "12:running", ""})
	want := []types.ManagedProfile{
		{UserID: "10", Running: true},
		{UserID: "11", Running: false},
		{UserID: "12", Running: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected profiles (-want +got):\n%s", diff)
	}
}
