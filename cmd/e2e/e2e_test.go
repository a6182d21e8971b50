package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateE2EArgs(t *testing.T) {
	tmpDir := t.TempDir()
	datasetPath := filepath.Join(tmpDir, "dataset.toml")
	assert.NoError(t, os.WriteFile(datasetPath, []byte("repos = []\n"), 0o644))

	tests := []struct {
		name    string
		options RunOptionsE2E
		args    []string
		wantErr string
	}{
		{
			// valid: cpd e2e dataset.toml
			name:    "Valid dataset",
			options: RunOptionsE2E{Threads: 1},
			args:    []string{datasetPath},
		},
		{
			name:    "Missing dataset",
			options: RunOptionsE2E{Threads: 1},
			args:    []string{},
			wantErr: "exactly one dataset file must be specified",
		},
		{
			name:    "Dataset is a directory",
			options: RunOptionsE2E{Threads: 1},
			args:    []string{tmpDir},
			wantErr: "is a directory",
		},
		{
			name:    "Dataset does not exist",
			options: RunOptionsE2E{Threads: 1},
			args:    []string{filepath.Join(tmpDir, "missing.toml")},
			wantErr: "invalid dataset path",
		},
		{
			name:    "Non positive threads",
			options: RunOptionsE2E{Threads: 0},
			args:    []string{datasetPath},
			wantErr: "the 'threads' flag must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateE2EArgs(&tt.options, tt.args)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
