package classify

import (
	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

// GetAttrCount estimates how many times the sensitive accessor is traversed before the sink.
type GetAttrCount string

const (
	// One means the accessor occurs exactly once on the known path.
	One GetAttrCount = "One"
	// TwoPlus means the accessor is unconditionally traversed at least twice.
	TwoPlus GetAttrCount = "TwoPlus"
	// Conditional means the count depends on a loop or a recursive call.
	Conditional GetAttrCount = "Conditional"
)

// Classifier derives GetAttrCount from issue features and filters unreliable issues.
type Classifier struct {
	sourceFeature string
	unreliable    map[string]struct{}
}

// New returns a classifier for the given accessor feature tag and unreliability markers.
func New(sourceFeature string, unreliable []string) *Classifier {
	markers := make(map[string]struct{}, len(unreliable))
	for _, m := range unreliable {
		markers[m] = struct{}{}
	}
	return &Classifier{sourceFeature: sourceFeature, unreliable: markers}
}

// Features gathers the issue features together with the local and kind features
// of the roots of its forward trace.
func Features(issue *taint.Issue) []taint.Feature {
	features := append([]taint.Feature(nil), issue.Features...)
	forward, ok := issue.Trace(taint.ForwardTrace)
	if !ok {
		return features
	}
	for _, root := range forward.Roots {
		features = append(features, root.LocalFeatures...)
		for _, kind := range root.Kinds {
			features = append(features, kind.Features...)
		}
	}
	return features
}

// Classify returns the accessor count of issue.
func (c *Classifier) Classify(issue *taint.Issue) GetAttrCount {
	return Count(Features(issue), c.sourceFeature)
}

// Reliable reports whether none of the issue features carries an unreliability marker.
func (c *Classifier) Reliable(issue *taint.Issue) bool {
	for _, feature := range Features(issue) {
		if v, ok := feature.Via(); ok && c.isUnreliable(v) {
			return false
		}
		if v, ok := feature.AlwaysVia(); ok && c.isUnreliable(v) {
			return false
		}
	}
	return true
}

func (c *Classifier) isUnreliable(marker string) bool {
	_, ok := c.unreliable[marker]
	return ok
}

// Count classifies a feature set. An always-via annotation for tag wins over everything else.
func Count(features []taint.Feature, tag string) GetAttrCount {
	for _, feature := range features {
		if v, ok := feature.AlwaysVia(); ok && v == tag {
			return TwoPlus
		}
	}
	for _, feature := range features {
		if v, ok := feature.Via(); ok && v == tag {
			return Conditional
		}
	}
	return One
}
