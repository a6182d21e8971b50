package analyzer

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
)

func TestStageError(t *testing.T) {
	var tests = []struct {
		name      string
		resp      shared.AnalyzerResponse
		err       error
		wantStage errors.Stage
		wantNil   bool
	}{
		{name: "success", wantNil: true},
		{name: "transport failure", err: fmt.Errorf("connection reset"), wantStage: errors.StageAnalysis},
		{name: "reported stage", resp: shared.AnalyzerResponse{Error: "pip failed", FailedStage: "InstallingDependencies"}, wantStage: errors.StageInstallingDependencies},
		{name: "unknown stage", resp: shared.AnalyzerResponse{Error: "boom", FailedStage: "Teleport"}, wantStage: errors.StageAnalysis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := stageError(tt.resp, tt.err)
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			var pipelineErr *errors.PipelineError
			require.True(t, stderrors.As(err, &pipelineErr))
			assert.Equal(t, tt.wantStage, pipelineErr.Stage)
		})
	}
}

func TestNewDefaultsPlugin(t *testing.T) {
	a := New(&config.Config{}, "", nil)
	assert.Equal(t, config.DefaultAnalyzerPlugin, a.pluginName)

	a = New(&config.Config{Analyzer: config.Analyzer{Plugin: "custom"}}, "", nil)
	assert.Equal(t, "custom", a.pluginName)

	a = New(nil, "explicit", nil)
	assert.Equal(t, "explicit", a.pluginName)
}

func TestNewDefaultsLogger(t *testing.T) {
	a := New(&config.Config{}, "", nil)
	require.NotNil(t, a.logger)
	assert.NotPanics(t, func() {
		a.logger.Error("analyzer plugin call failed", "project", "demo")
	})

	custom := hclog.New(&hclog.LoggerOptions{Name: "custom", Output: io.Discard})
	assert.Equal(t, "custom", New(nil, "", custom).logger.Name())
}
