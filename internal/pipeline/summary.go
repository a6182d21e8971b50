package pipeline

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/class-pollution-detection/internal/report"
)

// GenerateSummary renders a markdown digest of reports grouped by outcome.
// Reports reused from a previous run are marked "(cached)".
func GenerateSummary(reports []*report.Report) string {
	groups := map[report.Outcome][]*report.Report{}
	for _, r := range reports {
		groups[r.Outcome()] = append(groups[r.Outcome()], r)
	}

	var b strings.Builder
	b.WriteString("# Report Summary\n")

	section := func(title string, outcome report.Outcome, line func(r *report.Report) string) {
		fmt.Fprintf(&b, "\n## %s (%d)\n\n", title, len(groups[outcome]))
		for _, r := range groups[outcome] {
			b.WriteString("- ")
			b.WriteString(line(r))
			if r.PreviousRun {
				b.WriteString(" (cached)")
			}
			b.WriteString("\n")
		}
	}

	section("Packages with class pollution issues", report.OutcomeIssues, func(r *report.Report) string {
		return fmt.Sprintf("%s (%d issue(s))", r.RepositoryConfig.ID, len(r.Issues))
	})
	section("Packages with errors", report.OutcomeErrors, func(r *report.Report) string {
		stage := "Unknown"
		if r.ErrorStage != nil {
			stage = string(*r.ErrorStage)
		}
		return fmt.Sprintf("%s (%d error(s), %s)", r.RepositoryConfig.ID, len(r.Errors), stage)
	})
	section("Packages with warnings", report.OutcomeWarnings, func(r *report.Report) string {
		return fmt.Sprintf("%s (%d warning(s), %d issue(s))", r.RepositoryConfig.ID, len(r.Warnings), len(r.Issues))
	})
	section("Packages with no issues", report.OutcomeNoIssues, func(r *report.Report) string {
		return r.RepositoryConfig.ID
	})

	return b.String()
}
