package results

import (
	"bytes"
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/class-pollution-detection/internal/trace"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

const (
	ToolName           = "class-pollution-detection"
	ToolInformationURI = "https://github.com/scan-io-git/class-pollution-detection"
	RuleIDPrefix       = "class-pollution/"

	// DefaultSARIFName names the report written when the output path is a folder.
	DefaultSARIFName = "results.sarif"
)

// WriteSARIF exports the processed issues as a SARIF 2.1.0 log. Every issue becomes one
// result located at the issue and carrying its trace as a code flow.
func WriteSARIF(w io.Writer, r *ProcessedResults) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)
	for _, issue := range r.Issues {
		rule := run.AddRule(fmt.Sprintf("%s%d", RuleIDPrefix, issue.Code)).
			WithDescription("potential class pollution")

		message := issue.Message
		if message == "" {
			message = fmt.Sprintf("potential class pollution in %s", issue.Callable)
		}

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(level(issue)).
			WithLocations([]*sarif.Location{newLocation(issue.Location)})

		codeFlow := sarif.NewCodeFlow()
		threadFlow := sarif.NewThreadFlow()
		for _, entry := range issue.Trace {
			location := newLocation(entry.Location).
				WithMessage(sarif.NewTextMessage(fmt.Sprintf("%s %s (%s)", entry.Callable, entry.Port, entry.Status)))
			threadFlow.Locations = append(threadFlow.Locations, &sarif.ThreadFlowLocation{
				Location: location,
			})
		}
		codeFlow.ThreadFlows = append(codeFlow.ThreadFlows, threadFlow)
		result.CodeFlows = append(result.CodeFlows, codeFlow)

		result.Properties = map[string]interface{}{
			"getattr_count": string(issue.GetAttrCount),
			"label":         issue.Label.String(),
			"callable":      issue.Callable,
		}
		run.AddResult(result)
	}
	report.AddRun(run)

	return report.PrettyWrite(w)
}

// ResolveSARIFPath returns the report file for an output path that may name a folder.
func ResolveSARIFPath(path string) (string, error) {
	fullPath, _, err := files.DetermineFileFullPath(path, DefaultSARIFName)
	if err != nil {
		return "", fmt.Errorf("invalid SARIF output path: %w", err)
	}
	return fullPath, nil
}

// WriteSARIFFile writes the SARIF log of r to path.
func WriteSARIFFile(path string, r *ProcessedResults) error {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, r); err != nil {
		return err
	}
	if err := files.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write SARIF report %q: %w", path, err)
	}
	return nil
}

func newLocation(l trace.Location) *sarif.Location {
	region := sarif.NewRegion().WithStartLine(l.Line)
	if l.End > l.Start {
		// analyzer offsets are zero based
		region = region.WithStartColumn(l.Start + 1).WithEndColumn(l.End + 1)
	}
	return sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(l.Filename)).
			WithRegion(region),
	)
}

// level maps the verdict and classification to a SARIF level.
func level(issue ProcessedIssue) string {
	switch {
	case issue.Label.Kind == LabelNotVulnerable:
		return "note"
	case issue.Label.Kind == LabelVulnerable:
		return "error"
	default:
		return "warning"
	}
}
