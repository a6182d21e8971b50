package issuecorrelation

// IssueMetadata describes the minimal metadata required to correlate issues.
// Fields:
//   - IssueID: position of the issue in its report, not used in correlation processing.
//   - Callable: function the issue was reported in, kept for diagnostics.
//   - TraceHash: fingerprint of the reconstructed trace, see ComputeTraceHash.
type IssueMetadata struct {
	IssueID   int
	Callable  string
	TraceHash string
}

// Correlator accepts slices of new and known issues and computes correlations
// between them. Use NewCorrelator to create an instance and call Process() to
// compute correlations. The correlator preserves many-to-many relationships so callers
// can detect ambiguous correspondences.
type Correlator struct {
	NewIssues   []IssueMetadata
	KnownIssues []IssueMetadata

	// internal indexes populated by Process()
	knownToNew map[int][]int // known index -> list of new indices
	newToKnown map[int][]int // new index -> list of known indices

	processed bool
}

// NewCorrelator constructs a Correlator with the provided slices of new and
// known issues. The correlator is inert until Process() is called.
func NewCorrelator(newIssues, knownIssues []IssueMetadata) *Correlator {
	return &Correlator{
		NewIssues:   newIssues,
		KnownIssues: knownIssues,
	}
}

// Process correlates every new issue with every known issue carrying the same
// non-empty TraceHash. Process is idempotent.
func (c *Correlator) Process() {
	if c.processed {
		return
	}
	c.knownToNew = make(map[int][]int)
	c.newToKnown = make(map[int][]int)

	byHash := make(map[string][]int, len(c.KnownIssues))
	for ki, k := range c.KnownIssues {
		if k.TraceHash == "" {
			continue
		}
		byHash[k.TraceHash] = append(byHash[k.TraceHash], ki)
	}

	for ni, n := range c.NewIssues {
		if n.TraceHash == "" {
			continue
		}
		for _, ki := range byHash[n.TraceHash] {
			c.knownToNew[ki] = append(c.knownToNew[ki], ni)
			c.newToKnown[ni] = append(c.newToKnown[ni], ki)
		}
	}

	c.processed = true
}

// KnownFor returns the indices of the known issues correlated to the new issue at index ni.
func (c *Correlator) KnownFor(ni int) []int {
	if !c.processed {
		c.Process()
	}
	return c.newToKnown[ni]
}

// UnmatchedKnown returns the subset of known issues that were not correlated
// to any new issue. If Process() has not yet been run it will be invoked.
func (c *Correlator) UnmatchedKnown() []IssueMetadata {
	if !c.processed {
		c.Process()
	}

	var out []IssueMetadata
	for ki, k := range c.KnownIssues {
		if len(c.knownToNew[ki]) == 0 {
			out = append(out, k)
		}
	}
	return out
}
