package label

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
)

func newTestCmd(t *testing.T, options *RunOptionsLabel, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&options.Dataset, "dataset", "", "")
	cmd.Flags().IntVar(&options.ContextBefore, "context-before", 0, "")
	cmd.Flags().IntVar(&options.ContextAfter, "context-after", 0, "")
	require.NoError(t, cmd.Flags().Parse(flags))
	return cmd
}

func TestValidateLabelArgs(t *testing.T) {
	AppConfig = &config.Config{Labeling: config.Labeling{ContextBefore: 20, ContextAfter: 10}}
	t.Cleanup(func() { AppConfig = nil })

	t.Run("defaults from config", func(t *testing.T) {
		var options RunOptionsLabel
		cmd := newTestCmd(t, &options)
		require.NoError(t, validateLabelArgs(cmd, &options, nil))
		assert.Equal(t, 20, options.ContextBefore)
		assert.Equal(t, 10, options.ContextAfter)
	})

	t.Run("flags win", func(t *testing.T) {
		var options RunOptionsLabel
		cmd := newTestCmd(t, &options, "--context-before", "0", "--context-after", "3")
		require.NoError(t, validateLabelArgs(cmd, &options, nil))
		assert.Equal(t, 0, options.ContextBefore)
		assert.Equal(t, 3, options.ContextAfter)
	})

	t.Run("negative context", func(t *testing.T) {
		var options RunOptionsLabel
		cmd := newTestCmd(t, &options, "--context-after", "-1")
		assert.ErrorContains(t, validateLabelArgs(cmd, &options, nil), "cannot be negative")
	})

	t.Run("dataset must exist", func(t *testing.T) {
		var options RunOptionsLabel
		cmd := newTestCmd(t, &options, "--dataset", filepath.Join(t.TempDir(), "missing.toml"))
		assert.ErrorContains(t, validateLabelArgs(cmd, &options, nil), "invalid dataset path")
	})

	t.Run("existing dataset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dataset.toml")
		require.NoError(t, os.WriteFile(path, []byte("repos = []\n"), 0o644))
		var options RunOptionsLabel
		cmd := newTestCmd(t, &options, "--dataset", path)
		assert.NoError(t, validateLabelArgs(cmd, &options, nil))
	})

	t.Run("positional arguments", func(t *testing.T) {
		var options RunOptionsLabel
		cmd := newTestCmd(t, &options)
		assert.Error(t, validateLabelArgs(cmd, &options, []string{"extra"}))
	})
}
