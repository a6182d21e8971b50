package results

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/class-pollution-detection/internal/classify"
	"github.com/scan-io-git/class-pollution-detection/internal/taint"
	"github.com/scan-io-git/class-pollution-detection/internal/trace"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
)

// ProcessedIssue is a reconstructed issue as stored in reports.
type ProcessedIssue struct {
	Location     trace.Location        `json:"location"`
	Callable     string                `json:"callable"`
	Code         int                   `json:"code"`
	Message      string                `json:"message,omitempty"`
	Trace        []trace.Entry         `json:"trace"`
	GetAttrCount classify.GetAttrCount `json:"getattr_count"`
	Label        Label                 `json:"label"`
}

// ProcessedResults holds the issues kept after filtering.
// RawIssueCount counts every issue of the analyzer output, filtered ones included.
type ProcessedResults struct {
	RawIssueCount int
	Issues        []ProcessedIssue
}

// Processor turns analyzer output into processed issues.
type Processor struct {
	classifier *classify.Classifier
	logger     hclog.Logger
}

func NewProcessor(classifier *classify.Classifier, logger hclog.Logger) *Processor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Processor{classifier: classifier, logger: logger}
}

// NewProcessorFromConfig builds a processor classifying with the taint settings of cfg.
func NewProcessorFromConfig(cfg *config.Config, logger hclog.Logger) *Processor {
	classifier := classify.New(config.GetSourceFeature(cfg), config.GetUnreliableFeatures(cfg))
	return NewProcessor(classifier, logger)
}

// Process drops unreliable issues, then classifies and walks the traces of the rest.
// Issues keep the order of the output stream and start unlabeled.
func (p *Processor) Process(out *taint.Output) *ProcessedResults {
	index := trace.NewIndex(out.Models)
	walker := trace.NewWalker(index, p.logger)

	results := &ProcessedResults{RawIssueCount: len(out.Issues)}
	for i := range out.Issues {
		issue := &out.Issues[i]
		if !p.classifier.Reliable(issue) {
			p.logger.Debug("skipping unreliable issue", "callable", issue.Callable, "line", issue.Line)
			continue
		}

		location := issue.Location()
		results.Issues = append(results.Issues, ProcessedIssue{
			Location: trace.Location{
				Filename: location.ResolveFilename(""),
				Line:     location.Line,
				Start:    location.Start,
				End:      location.End,
			},
			Callable:     issue.Callable,
			Code:         issue.Code,
			Message:      issue.Message,
			Trace:        walker.Walk(issue),
			GetAttrCount: p.classifier.Classify(issue),
			Label:        Unlabeled(),
		})
	}

	p.logger.Debug("processed taint output", "models", index.Len(), "raw_issues", results.RawIssueCount, "issues", len(results.Issues))
	return results
}

// Summarise renders a plain text digest grouped by classification.
func (r *ProcessedResults) Summarise() string {
	var b strings.Builder

	groups := []struct {
		title string
		count classify.GetAttrCount
	}{
		{"Issues with one getattr", classify.One},
		{"Issues with two+ getattr", classify.TwoPlus},
		{"Issues with a conditional number of getattr", classify.Conditional},
	}
	for _, group := range groups {
		var matching []ProcessedIssue
		for _, issue := range r.Issues {
			if issue.GetAttrCount == group.count {
				matching = append(matching, issue)
			}
		}
		fmt.Fprintf(&b, "%s: %d\n", group.title, len(matching))
		for _, issue := range matching {
			filename := issue.Location.Filename
			if filename == "" {
				filename = "<unknown>"
			}
			fmt.Fprintf(&b, "- at %s, line %d\n", filename, issue.Location.Line)
		}
	}
	fmt.Fprintf(&b, "Total issues: %d\n", len(r.Issues))

	return b.String()
}
