package report

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/class-pollution-detection/internal/classify"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/trace"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
)

func TestReconcileUpdatesClassificationOnly(t *testing.T) {
	label := results.NotVulnerable(results.Reason{Kind: results.ReasonOther, Notes: "guarded"})
	stored := &Report{Issues: []results.ProcessedIssue{
		issue("app.a", classify.One, label),
		issue("app.b", classify.One, results.Vulnerable()),
	}}
	fresh := []results.ProcessedIssue{
		issue("app.b", classify.One, results.Unlabeled()),
		issue("app.a", classify.TwoPlus, results.Unlabeled()),
	}

	changed, err := Reconcile(stored, fresh)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, classify.TwoPlus, stored.Issues[0].GetAttrCount)
	assert.Equal(t, label, stored.Issues[0].Label)
	assert.Equal(t, classify.One, stored.Issues[1].GetAttrCount)
	assert.Equal(t, results.LabelVulnerable, stored.Issues[1].Label.Kind)

	// a second pass with the same fresh issues is a no-op
	changed, err = Reconcile(stored, fresh)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, label, stored.Issues[0].Label)
}

func TestReconcileRequiresUniqueMatch(t *testing.T) {
	moved := issue("app.a", classify.TwoPlus, results.Unlabeled())
	moved.Trace[0].Location.Line = 99

	var tests = []struct {
		name    string
		stored  []results.ProcessedIssue
		fresh   []results.ProcessedIssue
		matches int
	}{
		{
			name:    "no match",
			stored:  []results.ProcessedIssue{issue("app.a", classify.One, results.Unlabeled())},
			fresh:   []results.ProcessedIssue{moved},
			matches: 0,
		},
		{
			name: "ambiguous",
			stored: []results.ProcessedIssue{
				issue("app.a", classify.One, results.Unlabeled()),
				issue("app.a", classify.One, results.Vulnerable()),
			},
			fresh:   []results.ProcessedIssue{issue("app.a", classify.TwoPlus, results.Unlabeled())},
			matches: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := &Report{Issues: tt.stored}
			changed, err := Reconcile(stored, tt.fresh)
			assert.False(t, changed)

			var reconcileErr *errors.ReconcileError
			require.True(t, stderrors.As(err, &reconcileErr))
			assert.Equal(t, tt.matches, reconcileErr.Matches)
			assert.Equal(t, "app.a", reconcileErr.Callable)
			for _, s := range stored.Issues {
				assert.Equal(t, classify.One, s.GetAttrCount)
			}
		})
	}
}

func TestReconcileAbortsBeforeApplying(t *testing.T) {
	stored := &Report{Issues: []results.ProcessedIssue{issue("app.a", classify.One, results.Unlabeled())}}
	unknown := issue("app.z", classify.One, results.Unlabeled())
	unknown.Trace = []trace.Entry{{Status: trace.StatusPresent, Callable: "app.z", Port: trace.RootPort}}

	_, err := Reconcile(stored, []results.ProcessedIssue{
		issue("app.a", classify.Conditional, results.Unlabeled()),
		unknown,
	})
	require.Error(t, err)
	assert.Equal(t, classify.One, stored.Issues[0].GetAttrCount)
}
