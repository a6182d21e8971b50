package results

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelJSON(t *testing.T) {
	var tests = []struct {
		name  string
		label Label
		json  string
	}{
		{name: "unlabeled", label: Unlabeled(), json: `"Unlabeled"`},
		{name: "vulnerable", label: Vulnerable(), json: `"Vulnerable"`},
		{name: "not vulnerable without reasons", label: NotVulnerable(), json: `{"NotVulnerable":{"reasons":[]}}`},
		{
			name:  "not vulnerable with reasons",
			label: NotVulnerable(Reason{Kind: ReasonFiltered}, Reason{Kind: ReasonOther, Notes: "sanitised upstream"}),
			json:  `{"NotVulnerable":{"reasons":["Filtered",{"Other":{"notes":"sanitised upstream"}}]}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.label)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var decoded Label
			require.NoError(t, json.Unmarshal([]byte(tt.json), &decoded))
			assert.Equal(t, tt.label.Kind, decoded.Kind)
			assert.Len(t, decoded.Reasons, len(tt.label.Reasons))
			for i := range tt.label.Reasons {
				assert.Equal(t, tt.label.Reasons[i], decoded.Reasons[i])
			}
		})
	}
}

func TestZeroLabelIsUnlabeled(t *testing.T) {
	var label Label
	assert.True(t, label.IsUnlabeled())

	data, err := json.Marshal(label)
	require.NoError(t, err)
	assert.Equal(t, `"Unlabeled"`, string(data))
}

func TestLabelInvalidJSON(t *testing.T) {
	for _, input := range []string{`"Maybe"`, `{"Vulnerable":{}}`, `42`, `{"NotVulnerable":{"reasons":["Bogus"]}}`} {
		var label Label
		assert.Error(t, json.Unmarshal([]byte(input), &label), input)
	}
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "Unlabeled", Label{}.String())
	assert.Equal(t, "Vulnerable", Vulnerable().String())
	assert.Equal(t, "NotVulnerable (NonRecursive, Other: dead code)",
		NotVulnerable(Reason{Kind: ReasonNonRecursive}, Reason{Kind: ReasonOther, Notes: "dead code"}).String())
}
