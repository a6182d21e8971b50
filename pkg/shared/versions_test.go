package shared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPluginVersions(t *testing.T) {
	dir := t.TempDir()
	writePlugin := func(name, content string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0o755))
		if content != "" {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name, "VERSION"), []byte(content), 0o644))
		}
	}
	writePlugin("pysa", `{"version":"1.2.0","plugin_type":"analyzer"}`)
	writePlugin("exporter", `{"version":"0.1.0","plugin_type":"exporter"}`)
	writePlugin("broken", "")

	all := GetPluginVersions(dir, "")
	assert.Len(t, all, 3)
	assert.Equal(t, PluginMeta{Version: "unknown", PluginType: "unknown"}, all["broken"])

	analyzers := GetPluginVersions(dir, PluginTypeAnalyzer)
	assert.Equal(t, map[string]PluginMeta{"pysa": {Version: "1.2.0", PluginType: "analyzer"}}, analyzers)

	assert.Empty(t, GetPluginVersions(filepath.Join(dir, "missing"), ""))
}
