package labeling

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/report"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
)

// Session walks the reviewer through every unlabeled issue of the stored reports.
type Session struct {
	Workdir  string
	Allowed  dataset.AllowedRepos
	Prompter Prompter
	Renderer *Renderer
	Out      io.Writer
	Logger   hclog.Logger
}

// PromptUnlabeled labels the unlabeled issues of every allowed report. Reports that
// cannot be read or have no analysis directory are skipped; an issue that cannot be
// rendered or prompted is logged and skipped. Only changed reports are rewritten.
func (s *Session) PromptUnlabeled() error {
	if s.Logger == nil {
		s.Logger = hclog.NewNullLogger()
	}

	reports, err := report.ListReports(s.Workdir, s.Allowed)
	if err != nil {
		return err
	}
	analysis, err := report.ListAnalysis(s.Workdir)
	if err != nil {
		return err
	}

	var errs []error
	for _, entry := range reports {
		r, err := report.Read(entry.Path)
		if err != nil {
			s.Logger.Error("failed to open report", "path", entry.Path, "error", err)
			continue
		}
		if r.Unlabeled() == 0 {
			continue
		}

		dir, ok := report.FindAnalysisDirectory(analysis, entry.ID)
		if !ok {
			s.Logger.Warn("could not find the analysis directory", "id", entry.ID)
			continue
		}

		s.Logger.Debug("looking for unlabeled issues", "id", entry.ID)
		changed, promptErr := s.promptProject(dir.Path, r)
		if changed {
			if err := r.Write(entry.Path); err != nil {
				s.Logger.Error("failed to save report", "path", entry.Path, "error", err)
				errs = append(errs, err)
			} else {
				s.Logger.Debug("saved updated report", "path", entry.Path)
			}
		}
		if stderrors.Is(promptErr, ErrAborted) {
			s.Logger.Info("labeling session aborted")
			break
		}
	}
	return stderrors.Join(errs...)
}

// promptProject returns whether any label changed. It stops early only when the reviewer aborts.
func (s *Session) promptProject(analysisDir string, r *report.Report) (bool, error) {
	changed := false
	for i := range r.Issues {
		issue := &r.Issues[i]
		if !issue.Label.IsUnlabeled() {
			continue
		}

		updated, err := s.promptIssue(analysisDir, issue)
		if stderrors.Is(err, ErrAborted) {
			return changed, err
		}
		if err != nil {
			s.Logger.Error("failed to prompt issue", "callable", issue.Callable, "error", err)
			continue
		}
		changed = changed || updated
	}
	return changed, nil
}

func (s *Session) promptIssue(analysisDir string, issue *results.ProcessedIssue) (bool, error) {
	if err := s.Renderer.Render(s.Out, analysisDir, *issue); err != nil {
		return false, fmt.Errorf("failed to show issue: %w", err)
	}

	kind, err := s.Prompter.SelectLabel()
	if err != nil {
		return false, err
	}

	switch kind {
	case results.LabelVulnerable:
		issue.Label = results.Vulnerable()
	case results.LabelNotVulnerable:
		kinds, err := s.Prompter.SelectReasons()
		if err != nil {
			return false, err
		}
		reasons := make([]results.Reason, 0, len(kinds))
		for _, k := range kinds {
			reason := results.Reason{Kind: k}
			if k == results.ReasonOther {
				if reason.Notes, err = s.Prompter.OtherNotes(); err != nil {
					return false, err
				}
			}
			reasons = append(reasons, reason)
		}
		issue.Label = results.NotVulnerable(reasons...)
	default:
		return false, nil
	}
	return true, nil
}
