package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

func TestValidateResultsArgs(t *testing.T) {
	resultsDir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(resultsDir, taint.OutputFileName), []byte(`{"file_version":3}`), 0o644))
	emptyDir := t.TempDir()

	tests := []struct {
		name    string
		options RunOptionsResults
		args    []string
		wantErr string
	}{
		{
			// valid: cpd results pysa-results
			name: "Valid results directory",
			args: []string{resultsDir},
		},
		{
			name:    "Valid results directory with SARIF output",
			options: RunOptionsResults{SarifPath: filepath.Join(emptyDir, "out.sarif")},
			args:    []string{resultsDir},
		},
		{
			name:    "Missing results directory",
			args:    []string{},
			wantErr: "exactly one results directory must be specified",
		},
		{
			name:    "No taint output",
			args:    []string{emptyDir},
			wantErr: "no taint-output.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResultsArgs(&tt.options, tt.args)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateResultsArgsResolvesSARIFFolder(t *testing.T) {
	resultsDir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(resultsDir, taint.OutputFileName), []byte(`{"file_version":3}`), 0o644))
	outDir := t.TempDir()
	missingDir := filepath.Join(t.TempDir(), "reports")

	tests := []struct {
		name  string
		sarif string
		want  string
	}{
		{name: "existing folder", sarif: outDir, want: filepath.Join(outDir, "results.sarif")},
		{name: "new folder", sarif: missingDir, want: filepath.Join(missingDir, "results.sarif")},
		{name: "file", sarif: filepath.Join(outDir, "out.sarif"), want: filepath.Join(outDir, "out.sarif")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := RunOptionsResults{SarifPath: tt.sarif}
			assert.NoError(t, validateResultsArgs(&options, []string{resultsDir}))
			assert.Equal(t, tt.want, options.SarifPath)
		})
	}
}
