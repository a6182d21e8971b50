package report

import (
	"fmt"
	"slices"

	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/trace"
	"github.com/scan-io-git/class-pollution-detection/pkg/issuecorrelation"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
)

// Reconcile carries freshly computed classifications into the stored report.
// Every fresh issue must match exactly one stored issue with an identical trace,
// otherwise a *errors.ReconcileError is returned and the report is left untouched.
// Labels are never modified. It reports whether any classification changed.
func Reconcile(stored *Report, fresh []results.ProcessedIssue) (bool, error) {
	correlator := issuecorrelation.NewCorrelator(metadata(fresh), metadata(stored.Issues))

	matches := make([]int, len(fresh))
	for ni, issue := range fresh {
		var same []int
		for _, ki := range correlator.KnownFor(ni) {
			if slices.Equal(stored.Issues[ki].Trace, issue.Trace) {
				same = append(same, ki)
			}
		}
		if len(same) != 1 {
			return false, &errors.ReconcileError{Callable: issue.Callable, Matches: len(same)}
		}
		matches[ni] = same[0]
	}

	changed := false
	for ni, ki := range matches {
		if stored.Issues[ki].GetAttrCount != fresh[ni].GetAttrCount {
			stored.Issues[ki].GetAttrCount = fresh[ni].GetAttrCount
			changed = true
		}
	}
	return changed, nil
}

// Unmatched returns the stored issues whose trace no fresh issue reproduces.
// Reconcile accepts such reports, so callers surface the drift themselves.
func Unmatched(stored *Report, fresh []results.ProcessedIssue) []issuecorrelation.IssueMetadata {
	return issuecorrelation.NewCorrelator(metadata(fresh), metadata(stored.Issues)).UnmatchedKnown()
}

func metadata(issues []results.ProcessedIssue) []issuecorrelation.IssueMetadata {
	out := make([]issuecorrelation.IssueMetadata, len(issues))
	for i, issue := range issues {
		out[i] = issuecorrelation.IssueMetadata{
			IssueID:   i,
			Callable:  issue.Callable,
			TraceHash: issuecorrelation.ComputeTraceHash(traceSteps(issue.Trace)),
		}
	}
	return out
}

func traceSteps(entries []trace.Entry) []string {
	steps := make([]string, len(entries))
	for i, e := range entries {
		steps[i] = fmt.Sprintf("%s|%s|%s|%s:%d:%d:%d", e.Status, e.Callable, e.Port,
			e.Location.Filename, e.Location.Line, e.Location.Start, e.Location.End)
	}
	return steps
}
