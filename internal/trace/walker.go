package trace

import (
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

// RootPort is the port recorded for the entry of the issue itself.
const RootPort = "root"

// Status tells whether the model of a trace entry was expanded.
type Status string

const (
	StatusPresent   Status = "Present"
	StatusMissing   Status = "Missing"
	StatusRecursive Status = "Recursive"
)

// Location is a resolved source span.
type Location struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Entry is one call site of a reconstructed trace.
type Entry struct {
	Status   Status   `json:"status"`
	Callable string   `json:"callable"`
	Port     string   `json:"port"`
	Location Location `json:"location"`
}

// Walker reconstructs linear traces from issue taint trees.
//
// Only the first root of a trace tree is walked, and at every node only the first
// kind, leaf, callee and taint fragment is followed. Polymorphic calls therefore
// contribute a single resolution to the trace.
type Walker struct {
	index  *Index
	logger hclog.Logger
}

func NewWalker(index *Index, logger hclog.Logger) *Walker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Walker{index: index, logger: logger}
}

type port struct {
	callable string
	port     string
}

// Walk returns the trace of issue: forward entries in expansion order, the issue's own
// entry, then backward entries in reverse so the trace reads from source to sink.
func (w *Walker) Walk(issue *taint.Issue) []Entry {
	location := issue.Location()
	filename := location.ResolveFilename("")

	var entries []Entry
	if forward, ok := issue.Trace(taint.ForwardTrace); ok && len(forward.Roots) > 0 {
		entries = append(entries, w.expand(forward.Roots[0], Forward, filename, map[port]bool{})...)
	}

	entries = append(entries, Entry{
		Status:   StatusPresent,
		Callable: issue.Callable,
		Port:     RootPort,
		Location: resolve(location, filename),
	})

	if backward, ok := issue.Trace(taint.BackwardTrace); ok && len(backward.Roots) > 0 {
		sinkSide := w.expand(backward.Roots[0], Backward, filename, map[port]bool{})
		for i := len(sinkSide) - 1; i >= 0; i-- {
			entries = append(entries, sinkSide[i])
		}
	}
	return entries
}

func (w *Walker) expand(fragment taint.Fragment, dir Direction, filename string, visited map[port]bool) []Entry {
	var (
		next     port
		location Location
	)

	switch fragment.Kind {
	case taint.FragmentOrigin:
		if len(fragment.Kinds) == 0 || len(fragment.Kinds[0].Leaves) == 0 {
			return nil
		}
		leaf := fragment.Kinds[0].Leaves[0]
		next = port{callable: leaf.Name, port: leaf.Port}
		if fragment.Origin != nil {
			location = resolve(*fragment.Origin, filename)
		} else {
			location = Location{Filename: filename}
		}
	case taint.FragmentCall:
		if fragment.Call == nil || len(fragment.Call.ResolvesTo) == 0 {
			return nil
		}
		next = port{callable: fragment.Call.ResolvesTo[0], port: fragment.Call.Port}
		location = resolve(fragment.Call.Position, filename)
	case taint.FragmentDeclaration:
		return nil
	default:
		w.logger.Warn("unexpected trace fragment", "kind", fragment.Kind)
		return nil
	}

	if visited[next] {
		w.logger.Debug("recursive call in trace", "callable", next.callable, "port", next.port, "direction", dir)
		return []Entry{{Status: StatusRecursive, Callable: next.callable, Port: next.port, Location: location}}
	}

	match, ok := w.index.Lookup(next.callable, next.port, dir)
	if !ok {
		w.logger.Debug("missing model", "callable", next.callable, "port", next.port, "direction", dir)
		return []Entry{{Status: StatusMissing, Callable: next.callable, Port: next.port, Location: location}}
	}

	visited[next] = true
	entries := w.expand(match.Fragment, dir, match.Model.ResolveFilename(filename), visited)
	return append(entries, Entry{Status: StatusPresent, Callable: next.callable, Port: next.port, Location: location})
}

func resolve(l taint.Location, filename string) Location {
	return Location{
		Filename: l.ResolveFilename(filename),
		Line:     l.Line,
		Start:    l.Start,
		End:      l.End,
	}
}
