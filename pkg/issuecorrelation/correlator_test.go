package issuecorrelation

import "testing"

func TestCorrelator_TraceHashMatch(t *testing.T) {
	known := []IssueMetadata{{IssueID: 0, TraceHash: "h1"}, {IssueID: 1, TraceHash: "h2"}}
	new := []IssueMetadata{{IssueID: 0, TraceHash: "h2"}}

	c := NewCorrelator(new, known)
	c.Process()

	if got := c.KnownFor(0); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected new issue to correlate to known 1, got %v", got)
	}

	unmatched := c.UnmatchedKnown()
	if len(unmatched) != 1 || unmatched[0].IssueID != 0 {
		t.Fatalf("expected known issue 0 to stay unmatched, got %v", unmatched)
	}
}

func TestCorrelator_Ambiguous(t *testing.T) {
	known := []IssueMetadata{{IssueID: 0, TraceHash: "h"}, {IssueID: 1, TraceHash: "h"}}
	new := []IssueMetadata{{IssueID: 0, TraceHash: "h"}}

	c := NewCorrelator(new, known)
	if got := len(c.KnownFor(0)); got != 2 {
		t.Fatalf("expected 2 correlations, got %d", got)
	}
}

func TestCorrelator_EmptyHashNeverMatches(t *testing.T) {
	c := NewCorrelator([]IssueMetadata{{}}, []IssueMetadata{{}})
	if got := len(c.KnownFor(0)); got != 0 {
		t.Fatalf("expected no correlations, got %d", got)
	}
	if got := len(c.UnmatchedKnown()); got != 1 {
		t.Fatalf("expected 1 unmatched known, got %d", got)
	}
}

func TestCorrelator_ProcessIdempotent(t *testing.T) {
	c := NewCorrelator([]IssueMetadata{{TraceHash: "x"}}, []IssueMetadata{{TraceHash: "x"}})
	c.Process()
	c.Process()
	if got := len(c.KnownFor(0)); got != 1 {
		t.Fatalf("expected 1 correlation after repeated processing, got %d", got)
	}
}

func TestComputeTraceHash(t *testing.T) {
	a := ComputeTraceHash([]string{"ab", "c"})
	b := ComputeTraceHash([]string{"a", "bc"})
	if a == b {
		t.Fatalf("expected different splits to hash differently")
	}
	if a != ComputeTraceHash([]string{"ab", "c"}) {
		t.Fatalf("expected hash to be deterministic")
	}
	if ComputeTraceHash(nil) == "" {
		t.Fatalf("expected hash of empty trace to be non-empty")
	}
}
