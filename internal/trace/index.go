package trace

import (
	"sort"

	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

// Direction selects which side of a model is consulted.
type Direction int

const (
	// Forward walks source models.
	Forward Direction = iota
	// Backward walks sink models.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Index is a read-only lookup over models sorted by callable.
// When a callable has several models the first one in input order wins.
type Index struct {
	models []*taint.Model
}

// Match is the result of a successful lookup.
type Match struct {
	Model    *taint.Model
	Fragment taint.Fragment
}

// NewIndex sorts the models once by callable.
func NewIndex(models []taint.Model) *Index {
	sorted := make([]*taint.Model, len(models))
	for i := range models {
		sorted[i] = &models[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Callable < sorted[j].Callable
	})
	return &Index{models: sorted}
}

// Len returns the number of indexed models.
func (ix *Index) Len() int {
	return len(ix.models)
}

// Model returns the model of callable.
func (ix *Index) Model(callable string) (*taint.Model, bool) {
	i := sort.Search(len(ix.models), func(i int) bool {
		return ix.models[i].Callable >= callable
	})
	if i < len(ix.models) && ix.models[i].Callable == callable {
		return ix.models[i], true
	}
	return nil, false
}

// Lookup returns the first taint fragment recorded for port of callable.
// An absent callable, an absent port and a port without fragments are all reported as a miss.
func (ix *Index) Lookup(callable, port string, dir Direction) (Match, bool) {
	model, ok := ix.Model(callable)
	if !ok {
		return Match{}, false
	}

	ports := model.Sources
	if dir == Backward {
		ports = model.Sinks
	}
	for _, p := range ports {
		if p.Port != port {
			continue
		}
		if len(p.Taint) == 0 {
			return Match{}, false
		}
		return Match{Model: model, Fragment: p.Taint[0]}, true
	}
	return Match{}, false
}
