package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
)

// Analyzer runs the external taint analyzer over one project.
type Analyzer interface {
	Analyze(ctx context.Context, req shared.AnalyzerRequest) (shared.AnalyzerResponse, error)
}

// PluginAnalyzer delegates analysis to an analyzer plugin binary from the plugins folder.
type PluginAnalyzer struct {
	cfg        *config.Config
	pluginName string        // Name of the analyzer plugin to use
	timeout    time.Duration // Upper bound for a single analysis, 0 means none
	logger     hclog.Logger
}

// New creates a new PluginAnalyzer instance with the provided configuration.
func New(cfg *config.Config, pluginName string, logger hclog.Logger) *PluginAnalyzer {
	if pluginName == "" {
		pluginName = config.GetAnalyzerPlugin(cfg)
	}
	var timeout time.Duration
	if cfg != nil {
		timeout = cfg.Analyzer.Timeout
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginAnalyzer{
		cfg:        cfg,
		pluginName: pluginName,
		timeout:    timeout,
		logger:     logger,
	}
}

// Analyze executes the analysis of a project using the configured plugin.
// Failures are returned as *errors.PipelineError carrying the stage that failed.
func (a *PluginAnalyzer) Analyze(ctx context.Context, req shared.AnalyzerRequest) (shared.AnalyzerResponse, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var resp shared.AnalyzerResponse
	err := shared.WithPlugin(ctx, a.cfg, "plugin-analyzer", shared.PluginTypeAnalyzer, a.pluginName, func(raw interface{}) error {
		analyzer, ok := raw.(shared.Analyzer)
		if !ok {
			return fmt.Errorf("invalid plugin type")
		}
		var err error
		resp, err = analyzer.Analyze(req)
		if err != nil {
			a.logger.Error("analyzer plugin call failed", "project", req.ProjectID)
			return fmt.Errorf("analyzer plugin call failed: %w", err)
		}
		return nil
	})

	return resp, stageError(resp, err)
}

// stageError converts a plugin outcome into a staged pipeline error.
// Transport failures are attributed to the analysis stage.
func stageError(resp shared.AnalyzerResponse, err error) error {
	if err != nil {
		return errors.WithStage(errors.StageAnalysis, err)
	}
	if resp.Error != "" {
		return errors.WithStage(errors.ParseStage(resp.FailedStage), fmt.Errorf("%s", resp.Error))
	}
	return nil
}
