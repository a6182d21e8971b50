package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

func TestIndexLookup(t *testing.T) {
	decl := taint.Fragment{Kind: taint.FragmentDeclaration}
	models := []taint.Model{
		{Callable: "z", Sources: []taint.PortTaint{{Port: "result", Taint: []taint.Fragment{decl}}}},
		{Callable: "a", Sinks: []taint.PortTaint{{Port: "formal(x)", Taint: []taint.Fragment{decl}}, {Port: "empty"}}},
		{Callable: "m", Filename: "first.py", Sources: []taint.PortTaint{{Port: "result", Taint: []taint.Fragment{decl}}}},
		{Callable: "m", Filename: "second.py", Sources: []taint.PortTaint{{Port: "result", Taint: []taint.Fragment{decl}}}},
	}
	index := NewIndex(models)
	assert.Equal(t, 4, index.Len())

	var tests = []struct {
		name     string
		callable string
		port     string
		dir      Direction
		found    bool
	}{
		{name: "source hit", callable: "z", port: "result", dir: Forward, found: true},
		{name: "sink hit", callable: "a", port: "formal(x)", dir: Backward, found: true},
		{name: "wrong direction", callable: "a", port: "formal(x)", dir: Forward},
		{name: "absent callable", callable: "b", port: "result", dir: Forward},
		{name: "absent port", callable: "z", port: "other", dir: Forward},
		{name: "port without taint", callable: "a", port: "empty", dir: Backward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := index.Lookup(tt.callable, tt.port, tt.dir)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.callable, match.Model.Callable)
				assert.Equal(t, taint.FragmentDeclaration, match.Fragment.Kind)
			}
		})
	}

	model, ok := index.Model("m")
	require.True(t, ok)
	assert.Equal(t, "first.py", model.Filename)
}
