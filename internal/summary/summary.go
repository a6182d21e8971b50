package summary

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/class-pollution-detection/internal/classify"
	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/report"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

// FileName is the summary written at the root of the working directory.
const FileName = "summary.json"

// Platform is where a project is published.
type Platform string

const (
	PlatformGitHub Platform = "GitHub"
	PlatformPyPI   Platform = "PyPI"
)

// Entry condenses one report for charting.
type Entry struct {
	Platform       Platform       `json:"platform"`
	Name           string         `json:"name"`
	Popularity     uint32         `json:"popularity"` // stars or downloads
	ErrorStage     *errors.Stage  `json:"error_stage"`
	RawIssueCount  int            `json:"raw_issue_count"`
	Issues         []IssueSummary `json:"issues"`
	ElapsedSeconds *uint64        `json:"elapsed_seconds"`
}

type IssueSummary struct {
	GetAttrCount classify.GetAttrCount `json:"getattr_count"`
	Label        results.Label         `json:"label"`
}

// FromReport builds the summary entry of r.
func FromReport(r *report.Report) Entry {
	repo := r.RepositoryConfig
	entry := Entry{
		Name:           repo.DisplayName(),
		ErrorStage:     r.ErrorStage,
		RawIssueCount:  r.RawIssueCount,
		Issues:         make([]IssueSummary, 0, len(r.Issues)),
		ElapsedSeconds: r.ElapsedSeconds,
	}

	if repo.Src.Kind == dataset.SourceGitHub {
		entry.Platform = PlatformGitHub
		if repo.Meta.Stars != nil {
			entry.Popularity = *repo.Meta.Stars
		}
	} else {
		entry.Platform = PlatformPyPI
		if repo.Meta.Downloads != nil {
			entry.Popularity = *repo.Meta.Downloads
		}
	}

	for _, issue := range r.Issues {
		entry.Issues = append(entry.Issues, IssueSummary{GetAttrCount: issue.GetAttrCount, Label: issue.Label})
	}
	return entry
}

// Compile reads every allowed report of workdir. Unreadable reports are logged and left out.
func Compile(workdir string, allowed dataset.AllowedRepos, logger hclog.Logger) ([]Entry, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	reports, err := report.ListReports(workdir, allowed)
	if err != nil {
		return nil, err
	}
	logger.Info("loading reports", "count", len(reports))

	entries := make([]Entry, 0, len(reports))
	for _, item := range reports {
		r, err := report.Read(item.Path)
		if err != nil {
			logger.Warn("skipping unreadable report", "path", item.Path, "error", err)
			continue
		}
		entries = append(entries, FromReport(r))
	}
	return entries, nil
}

// WriteJSON stores entries as workdir/summary.json and returns the written path.
func WriteJSON(workdir string, entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to serialize summary: %w", err)
	}

	path := filepath.Join(workdir, FileName)
	if err := files.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary %q: %w", path, err)
	}
	return path, nil
}
