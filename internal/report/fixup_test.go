package report

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/class-pollution-detection/internal/classify"
	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

const fixupOutput = `{"file_version":3}
{"kind":"issue","data":{"callable":"app.update","code":6001,"message":"m","filename":"app.py","line":3,"start":0,"end":4,"traces":[],"features":[{"always-via":"customgetattr"}]}}
`

func writeAnalysis(t *testing.T, workdir, name, output string) {
	t.Helper()
	dir := filepath.Join(workdir, AnalysisDir, name, ResultsDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, taint.OutputFileName), []byte(output), 0o644))
}

func newFixUp(workdir string) *FixUp {
	return &FixUp{
		Workdir:     workdir,
		Allowed:     dataset.AllowAll(),
		FileVersion: 3,
		Processor:   results.NewProcessor(classify.New("customgetattr", nil), nil),
		Progress:    io.Discard,
	}
}

func storedIssue() results.ProcessedIssue {
	fresh, err := taint.Read(strings.NewReader(fixupOutput), 3)
	if err != nil {
		panic(err)
	}
	issue := results.NewProcessor(classify.New("customgetattr", nil), nil).Process(fresh).Issues[0]
	issue.GetAttrCount = classify.One
	issue.Label = results.Vulnerable()
	return issue
}

func TestFixUpRun(t *testing.T) {
	workdir := t.TempDir()

	// updated: classification drifted
	updated := New(repo("updated"))
	updated.Issues = append(updated.Issues, storedIssue())
	require.NoError(t, updated.Write(Path(workdir, "updated")))
	writeAnalysis(t, workdir, "updated.100", fixupOutput)

	// skipped: failed analysis and missing analysis directory
	failed := NewFailed(repo("failed"), "Setup", assert.AnError)
	require.NoError(t, failed.Write(Path(workdir, "failed")))
	orphan := New(repo("orphan"))
	require.NoError(t, orphan.Write(Path(workdir, "orphan")))

	// failed: the stored trace no longer matches
	drifted := New(repo("drifted"))
	stale := storedIssue()
	stale.Trace[0].Location.Line = 1
	drifted.Issues = append(drifted.Issues, stale)
	require.NoError(t, drifted.Write(Path(workdir, "drifted")))
	writeAnalysis(t, workdir, "drifted.100", fixupOutput)

	stats, err := newFixUp(workdir).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drifted")
	assert.Equal(t, FixUpStats{Updated: 1, Skipped: 2, Failed: 1}, stats)

	read, err := Read(Path(workdir, "updated"))
	require.NoError(t, err)
	assert.Equal(t, classify.TwoPlus, read.Issues[0].GetAttrCount)
	assert.Equal(t, results.LabelVulnerable, read.Issues[0].Label.Kind)

	read, err = Read(Path(workdir, "drifted"))
	require.NoError(t, err)
	assert.Equal(t, classify.One, read.Issues[0].GetAttrCount)

	// second pass leaves the updated report unchanged
	stats, _ = newFixUp(workdir).Run()
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 0, stats.Updated)
}


func TestFixUpWarnsAboutVanishedIssues(t *testing.T) {
	workdir := t.TempDir()

	r := New(repo("shrunk"))
	removed := storedIssue()
	removed.Callable = "app.removed"
	removed.Trace[0].Callable = "app.removed"
	r.Issues = append(r.Issues, storedIssue(), removed)
	require.NoError(t, r.Write(Path(workdir, "shrunk")))
	writeAnalysis(t, workdir, "shrunk.100", fixupOutput)

	var logs bytes.Buffer
	fixup := newFixUp(workdir)
	fixup.Logger = hclog.New(&hclog.LoggerOptions{Output: &logs, DisableTime: true})

	stats, err := fixup.Run()
	require.NoError(t, err)
	assert.Equal(t, FixUpStats{Updated: 1}, stats)
	assert.Contains(t, logs.String(), "stored issue is no longer reported")
	assert.Contains(t, logs.String(), "issue=1 callable=app.removed")
	assert.NotContains(t, logs.String(), "callable=app.update")

	read, err := Read(Path(workdir, "shrunk"))
	require.NoError(t, err)
	require.Len(t, read.Issues, 2)
	assert.Equal(t, "app.removed", read.Issues[1].Callable)
}
