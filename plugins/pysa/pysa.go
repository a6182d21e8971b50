package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
)

// Metadata of the plugin
var (
	Version       = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// AnalyzerPysa runs the Pysa taint analyzer of the pyre toolchain.
type AnalyzerPysa struct {
	logger   hclog.Logger
	pyrePath string
}

// newAnalyzerPysa creates a new instance of AnalyzerPysa.
func newAnalyzerPysa(logger hclog.Logger) *AnalyzerPysa {
	pyrePath := os.Getenv("CPD_PYRE_PATH")
	if pyrePath == "" {
		pyrePath = "pyre"
	}
	return &AnalyzerPysa{
		logger:   logger,
		pyrePath: pyrePath,
	}
}

// buildCommandArgs constructs the command-line arguments for the pyre command.
func (g *AnalyzerPysa) buildCommandArgs(req shared.AnalyzerRequest) []string {
	return []string{"--noninteractive", "analyze", "--save-results-to", req.ResultsDir}
}

// Analyze writes the pyre configuration into the project folder and runs the taint analysis.
// Failures are reported through the response so the failed stage reaches the core.
func (g *AnalyzerPysa) Analyze(req shared.AnalyzerRequest) (shared.AnalyzerResponse, error) {
	var result shared.AnalyzerResponse
	g.logger.Info("analysis is starting", "project", req.ProjectID)
	g.logger.Debug("debug info", "req", req)

	if err := g.validateAnalyze(&req); err != nil {
		g.logger.Error("validation failed for analyze operation", "error", err)
		return failed(result, errors.StageSetup, err), nil
	}

	if req.ResolveDependencies {
		result.Warnings = append(result.Warnings, "dependency resolution is not supported by the pysa plugin, site packages are not analysed")
	}

	if err := writePyreSetup(req.ProjectDir); err != nil {
		g.logger.Error("failed to write pyre configuration", "error", err)
		return failed(result, errors.StagePyreSetup, err), nil
	}

	cmd := exec.Command(g.pyrePath, g.buildCommandArgs(req)...)
	cmd.Dir = req.ProjectDir
	g.logger.Debug("debug info", "cmd", cmd.Args)

	var stdBuffer bytes.Buffer
	mw := io.MultiWriter(g.logger.StandardWriter(&hclog.StandardLoggerOptions{
		InferLevels: true,
	}), &stdBuffer)

	cmd.Stdout = mw
	cmd.Stderr = mw

	if err := cmd.Run(); err != nil {
		g.logger.Error("pyre execution error", "error", err)
		return failed(result, errors.StageAnalysis, fmt.Errorf("pyre execution error: %w. Output: %s", err, stdBuffer.String())), nil
	}

	result.ResultsDir = req.ResultsDir
	g.logger.Info("analysis finished", "project", req.ProjectID)
	g.logger.Info("result saved", "path", req.ResultsDir)
	return result, nil
}

func failed(resp shared.AnalyzerResponse, stage errors.Stage, err error) shared.AnalyzerResponse {
	resp.FailedStage = string(stage)
	resp.Error = err.Error()
	return resp
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Level:      hclog.Trace,
		Output:     os.Stderr,
		JSONFormat: true,
	})

	pysaInstance := newAnalyzerPysa(logger)

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: shared.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			shared.PluginTypeAnalyzer: &shared.AnalyzerPlugin{Impl: pysaInstance},
		},
		Logger: logger,
	})
}
