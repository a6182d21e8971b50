package report

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/schollz/progressbar/v3"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

// FixUp recomputes the classification of stored reports from their raw analyzer output.
type FixUp struct {
	Workdir     string
	Allowed     dataset.AllowedRepos
	FileVersion int
	Processor   *results.Processor
	Logger      hclog.Logger
	Progress    io.Writer // progress bar output, os.Stderr when nil
}

// FixUpStats counts what a fix-up pass did.
type FixUpStats struct {
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Run reconciles every allowed report. A report that fails is logged and left untouched
// while the others are still processed; all failures are returned joined.
func (f *FixUp) Run() (FixUpStats, error) {
	var stats FixUpStats
	if f.Logger == nil {
		f.Logger = hclog.NewNullLogger()
	}

	reports, err := ListReports(f.Workdir, f.Allowed)
	if err != nil {
		return stats, err
	}
	analysis, err := ListAnalysis(f.Workdir)
	if err != nil {
		return stats, err
	}

	progress := f.Progress
	if progress == nil {
		progress = os.Stderr
	}
	bar := progressbar.NewOptions(len(reports),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("reconciling reports"),
		progressbar.OptionShowCount(),
	)

	var errs []error
	for _, entry := range reports {
		changed, skipped, err := f.fixReport(entry, analysis)
		switch {
		case err != nil:
			stats.Failed++
			f.Logger.Error("failed to reconcile report", "id", entry.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", entry.ID, err))
		case skipped:
			stats.Skipped++
		case changed:
			stats.Updated++
		default:
			stats.Unchanged++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	f.Logger.Info("fix-up finished", "updated", stats.Updated, "unchanged", stats.Unchanged, "skipped", stats.Skipped, "failed", stats.Failed)
	return stats, stderrors.Join(errs...)
}

func (f *FixUp) fixReport(entry Entry, analysis []AnalysisEntry) (changed bool, skipped bool, err error) {
	stored, err := Read(entry.Path)
	if err != nil {
		return false, false, err
	}
	if len(stored.Errors) > 0 {
		f.Logger.Debug("skipping failed analysis", "id", entry.ID)
		return false, true, nil
	}

	dir, ok := FindAnalysisDirectory(analysis, entry.ID)
	if !ok {
		f.Logger.Warn("could not find the analysis directory", "id", entry.ID)
		return false, true, nil
	}

	out, err := taint.ReadResultsDir(filepath.Join(dir.Path, ResultsDir), f.FileVersion)
	if err != nil {
		return false, false, err
	}
	fresh := f.Processor.Process(out)

	for _, gone := range Unmatched(stored, fresh.Issues) {
		f.Logger.Warn("stored issue is no longer reported", "id", entry.ID, "issue", gone.IssueID, "callable", gone.Callable)
	}

	changed, err = Reconcile(stored, fresh.Issues)
	if err != nil || !changed {
		return false, false, err
	}
	if err := stored.Write(entry.Path); err != nil {
		return false, false, err
	}
	f.Logger.Debug("updated report", "id", entry.ID, "path", entry.Path)
	return true, false, nil
}
