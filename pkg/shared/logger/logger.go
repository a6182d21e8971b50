package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
)

// NewLogger builds a named logger from the logger directive of config.
// The level falls back to CPD_LOG_LEVEL when the config leaves it empty.
func NewLogger(config *config.Config, name string) hclog.Logger {
	return hclog.New(loggerOptions(config, name))
}

func loggerOptions(cfg *config.Config, name string) *hclog.LoggerOptions {
	opts := &hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stdout,
	}

	if cfg != nil && cfg.Logger.Level != "" {
		opts.Level = getLogLevel(strings.ToUpper(cfg.Logger.Level))
	} else {
		// env variables has the second priority
		opts.Level = getLogLevel(strings.ToUpper(os.Getenv("CPD_LOG_LEVEL")))
	}

	if cfg != nil {
		opts.Output = getOutput(cfg.Logger.Output)
		// JSON lines go to collectors, keep the timestamp there
		if cfg.Logger.JSON {
			opts.JSONFormat = true
			opts.DisableTime = false
		}
	}
	return opts
}

func getOutput(output string) io.Writer {
	if strings.EqualFold(output, config.LogOutputStderr) {
		return os.Stderr
	}
	return os.Stdout
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
