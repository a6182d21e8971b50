package analyse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
)

func TestValidateAnalyseArgs(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "setup.py")
	assert.NoError(t, os.WriteFile(tmpFile, []byte(""), 0o644))

	tests := []struct {
		name    string
		options RunOptionsAnalyse
		args    []string
		wantErr string
	}{
		{
			// valid: cpd analyse /path/to/project
			name:    "Valid target path",
			args:    []string{tmpDir},
			wantErr: "",
		},
		{
			// valid: cpd analyse --name demo /path/to/project
			name:    "Valid target path with name",
			options: RunOptionsAnalyse{Name: "demo"},
			args:    []string{tmpDir},
			wantErr: "",
		},
		{
			// invalid: cpd analyse
			name:    "Missing target path",
			args:    []string{},
			wantErr: "exactly one target path must be specified",
		},
		{
			// invalid: cpd analyse /a /b
			name:    "Too many target paths",
			args:    []string{tmpDir, tmpDir},
			wantErr: "exactly one target path must be specified",
		},
		{
			name:    "Target path does not exist",
			args:    []string{filepath.Join(tmpDir, "missing")},
			wantErr: "the target path does not exist",
		},
		{
			name:    "Target path is a file",
			args:    []string{tmpFile},
			wantErr: "the target path is not a directory",
		},
		{
			name:    "Name with separator",
			options: RunOptionsAnalyse{Name: "../escape"},
			args:    []string{tmpDir},
			wantErr: "cannot contain path separators",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAnalyseArgs(&tt.options, tt.args)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAnalyseArgsResolvesSARIFFolder(t *testing.T) {
	target := t.TempDir()
	outDir := t.TempDir()

	options := RunOptionsAnalyse{SarifPath: outDir}
	assert.NoError(t, validateAnalyseArgs(&options, []string{target}))
	assert.Equal(t, filepath.Join(outDir, "results.sarif"), options.SarifPath)
}

func TestLocalRepository(t *testing.T) {
	repo := localRepository("/work/projects/flask", "")
	assert.Equal(t, "flask", repo.ID)
	assert.Equal(t, dataset.SourceLocal, repo.Src.Kind)
	assert.Equal(t, "flask", repo.DisplayName())

	named := localRepository("/work/projects/flask", "flask-main")
	assert.Equal(t, "flask-main", named.ID)
}
