package fixup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFixUpArgs(t *testing.T) {
	datasetPath := filepath.Join(t.TempDir(), "dataset.toml")
	require.NoError(t, os.WriteFile(datasetPath, []byte("repos = []\n"), 0o644))

	assert.NoError(t, validateFixUpArgs(&RunOptionsFixUp{}, nil))
	assert.NoError(t, validateFixUpArgs(&RunOptionsFixUp{Dataset: datasetPath}, nil))
	assert.ErrorContains(t, validateFixUpArgs(&RunOptionsFixUp{}, []string{"extra"}), "does not take positional arguments")
	assert.ErrorContains(t, validateFixUpArgs(&RunOptionsFixUp{Dataset: filepath.Dir(datasetPath)}, nil), "invalid dataset path")
}
