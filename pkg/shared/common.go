package shared

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-plugin"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/logger"
)

const (
	PluginTypeAnalyzer string = "analyzer"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CPD",
	MagicCookieValue: "5b1f0d3c77a94e0fa2f3c0b8d1e6a2c94f7d9e10",
}

var PluginMap = map[string]plugin.Plugin{
	PluginTypeAnalyzer: &AnalyzerPlugin{},
}

// WithPlugin starts the plugin binary pluginName from the plugins folder, dispenses pluginType
// and passes it to f. The plugin process is killed when f returns or ctx is done.
func WithPlugin(ctx context.Context, cfg *config.Config, loggerName string, pluginType string, pluginName string, f func(interface{}) error) error {
	logger := logger.NewLogger(cfg, loggerName)

	pluginPath := filepath.Join(config.GetPluginsHome(cfg), pluginName)
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(pluginPath),
		Logger:          logger,
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return fmt.Errorf("failed to start plugin %q: %w", pluginPath, err)
	}

	// Request the plugin
	raw, err := rpcClient.Dispense(pluginType)
	if err != nil {
		return fmt.Errorf("failed to dispense %q from plugin %q: %w", pluginType, pluginName, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- f(raw)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		client.Kill()
		<-done
		return ctx.Err()
	}
}

// HasFlags reports whether any flag was explicitly set on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	hasFlags := false
	flags.Visit(func(*pflag.Flag) {
		hasFlags = true
	})
	return hasFlags
}
