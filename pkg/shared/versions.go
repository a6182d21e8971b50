package shared

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Versions holds build information of the core binary.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// PluginMeta is read from the VERSION file shipped in every plugin folder.
type PluginMeta struct {
	Version    string `json:"version"`
	PluginType string `json:"plugin_type"`
}

var unknownPlugin = PluginMeta{Version: "unknown", PluginType: "unknown"}

// readVersionFile reads and parses the version file as JSON.
func readVersionFile(versionFilePath string) PluginMeta {
	var pm PluginMeta
	data, err := os.ReadFile(versionFilePath)
	if err != nil {
		return unknownPlugin
	}
	if err := json.Unmarshal(data, &pm); err != nil {
		return unknownPlugin
	}
	return pm
}

// GetPluginVersions lists the plugins installed in pluginsDir. When pluginType is set,
// only plugins of that type are returned.
func GetPluginVersions(pluginsDir, pluginType string) map[string]PluginMeta {
	pluginsMeta := make(map[string]PluginMeta)
	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		return pluginsMeta
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta := readVersionFile(filepath.Join(pluginsDir, entry.Name(), "VERSION"))
		if pluginType != "" && meta.PluginType != pluginType {
			continue
		}
		pluginsMeta[entry.Name()] = meta
	}
	return pluginsMeta
}
