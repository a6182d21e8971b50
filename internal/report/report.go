package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

// Layout of the working directory.
const (
	ReportsDir  = "reports"
	AnalysisDir = "analysis"
	SrcDir      = "src"
	ResultsDir  = "pysa-results"
)

// Report is the persisted outcome of analysing one project.
// Only one writer per project is supported at a time.
type Report struct {
	RunID                string                   `json:"run_id,omitempty"`
	RepositoryConfig     dataset.RepositoryConfig `json:"repository_config"`
	Warnings             []string                 `json:"warnings"`
	ErrorStage           *errors.Stage            `json:"error_stage"`
	Errors               []string                 `json:"errors"`
	RawIssueCount        int                      `json:"raw_issue_count"`
	Issues               []results.ProcessedIssue `json:"issues"`
	ResolvedDependencies []shared.PipPackage      `json:"resolved_dependencies"`
	ElapsedSeconds       *uint64                  `json:"elapsed_seconds"`

	// PreviousRun is set on reports read from disk instead of computed by this run.
	PreviousRun bool `json:"-"`
}

// New returns an empty report for repo with a fresh run id.
func New(repo dataset.RepositoryConfig) *Report {
	return &Report{
		RunID:                uuid.NewString(),
		RepositoryConfig:     repo,
		Warnings:             []string{},
		Errors:               []string{},
		Issues:               []results.ProcessedIssue{},
		ResolvedDependencies: []shared.PipPackage{},
	}
}

// NewFailed returns the report of an analysis that failed in stage.
func NewFailed(repo dataset.RepositoryConfig, stage errors.Stage, err error) *Report {
	r := New(repo)
	r.ErrorStage = &stage
	r.Errors = append(r.Errors, err.Error())
	return r
}

// Path returns where the report of project id is stored.
func Path(workdir, id string) string {
	return filepath.Join(workdir, ReportsDir, id+".json")
}

// Read loads a stored report and marks it as coming from a previous run.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %q: %w", path, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %q: %w", path, err)
	}
	r.PreviousRun = true
	return &r, nil
}

// Write stores the report at path, replacing any previous version atomically.
func (r *Report) Write(path string) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	if err := files.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %q: %w", path, err)
	}
	return nil
}

// Outcome summarises a report for the pipeline digest.
type Outcome int

const (
	OutcomeNoIssues Outcome = iota
	OutcomeIssues
	OutcomeWarnings
	OutcomeErrors
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIssues:
		return "Issues"
	case OutcomeWarnings:
		return "Warnings"
	case OutcomeErrors:
		return "Errors"
	default:
		return "NoIssues"
	}
}

// Outcome ranks errors over warnings over issues.
func (r *Report) Outcome() Outcome {
	switch {
	case len(r.Errors) > 0:
		return OutcomeErrors
	case len(r.Warnings) > 0:
		return OutcomeWarnings
	case len(r.Issues) > 0:
		return OutcomeIssues
	default:
		return OutcomeNoIssues
	}
}

// Unlabeled returns the number of issues still waiting for a verdict.
func (r *Report) Unlabeled() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Label.IsUnlabeled() {
			n++
		}
	}
	return n
}
