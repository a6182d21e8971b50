package taint

import (
	"encoding/json"
	"fmt"
)

// OutputFileName is the taint output stream written by the analyzer into its results folder.
const OutputFileName = "taint-output.json"

// Record kinds of the output stream.
const (
	KindModel = "model"
	KindIssue = "issue"
)

// Trace names of an issue.
const (
	ForwardTrace  = "forward"
	BackwardTrace = "backward"
)

// FilenameWildcard is recorded instead of a filename when the real one is kept in Path.
const FilenameWildcard = "*"

// Header is the first line of the output stream.
type Header struct {
	FileVersion *int `json:"file_version"`
}

// Record is one tagged line of the output stream. Exactly one of Model or Issue is set
// for known kinds; records of other kinds carry neither.
type Record struct {
	Kind  string
	Model *Model
	Issue *Issue
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Kind = raw.Kind
	switch raw.Kind {
	case KindModel:
		r.Model = &Model{}
		if err := json.Unmarshal(raw.Data, r.Model); err != nil {
			return fmt.Errorf("invalid model: %w", err)
		}
	case KindIssue:
		r.Issue = &Issue{}
		if err := json.Unmarshal(raw.Data, r.Issue); err != nil {
			return fmt.Errorf("invalid issue: %w", err)
		}
	}
	return nil
}

// Location is a source span as recorded by the analyzer. Filename may be empty
// when the location belongs to the enclosing model's file.
type Location struct {
	Filename string  `json:"filename,omitempty"`
	Path     *string `json:"path,omitempty"`
	Line     int     `json:"line"`
	Start    int     `json:"start"`
	End      int     `json:"end"`
}

// ResolveFilename returns the filename the span refers to. The wildcard is replaced by
// Path when present; an empty or unresolvable name inherits the enclosing filename.
func (l Location) ResolveFilename(inherited string) string {
	return resolveFilename(l.Filename, l.Path, inherited)
}

func resolveFilename(filename string, path *string, inherited string) string {
	switch filename {
	case "":
		return inherited
	case FilenameWildcard:
		if path != nil && *path != "" {
			return *path
		}
		return inherited
	default:
		return filename
	}
}

// Model is the taint summary of a single callable.
type Model struct {
	Callable string      `json:"callable"`
	Filename string      `json:"filename,omitempty"`
	Path     *string     `json:"path,omitempty"`
	Sources  []PortTaint `json:"sources,omitempty"`
	Sinks    []PortTaint `json:"sinks,omitempty"`
}

// ResolveFilename applies the wildcard rule to the model's own file.
func (m *Model) ResolveFilename(inherited string) string {
	return resolveFilename(m.Filename, m.Path, inherited)
}

// PortTaint lists the taint fragments recorded for one port of a callable.
type PortTaint struct {
	Port  string     `json:"port"`
	Taint []Fragment `json:"taint"`
}

// Issue is a source to sink flow reported by the analyzer.
type Issue struct {
	Callable string    `json:"callable"`
	Code     int       `json:"code"`
	Message  string    `json:"message"`
	Filename string    `json:"filename,omitempty"`
	Path     *string   `json:"path,omitempty"`
	Line     int       `json:"line"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
	Traces   []Trace   `json:"traces"`
	Features []Feature `json:"features"`
}

// Location returns the span of the issue itself.
func (i *Issue) Location() Location {
	return Location{
		Filename: i.Filename,
		Path:     i.Path,
		Line:     i.Line,
		Start:    i.Start,
		End:      i.End,
	}
}

// Trace returns the named trace tree of the issue.
func (i *Issue) Trace(name string) (Trace, bool) {
	for _, t := range i.Traces {
		if t.Name == name {
			return t, true
		}
	}
	return Trace{}, false
}

// Trace is a named set of taint tree roots.
type Trace struct {
	Name  string     `json:"name"`
	Roots []Fragment `json:"roots"`
}

// FragmentKind discriminates the variants of Fragment.
type FragmentKind int

const (
	FragmentOrigin FragmentKind = iota + 1
	FragmentCall
	FragmentDeclaration
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentOrigin:
		return "origin"
	case FragmentCall:
		return "call"
	case FragmentDeclaration:
		return "declaration"
	default:
		return fmt.Sprintf("FragmentKind(%d)", int(k))
	}
}

// Fragment is one node of a taint tree. Origin is set for FragmentOrigin and Call for
// FragmentCall; a declaration carries no location.
type Fragment struct {
	Kind          FragmentKind
	Origin        *Location
	Call          *CallInfo
	Kinds         []TaintKind
	LocalFeatures []Feature
}

// CallInfo references the callee taint flows through.
type CallInfo struct {
	Position   Location `json:"position"`
	ResolvesTo []string `json:"resolves_to"`
	Port       string   `json:"port"`
}

// TaintKind groups the leaves of a fragment under one taint kind.
type TaintKind struct {
	Kind     string    `json:"kind"`
	Leaves   []Leaf    `json:"leaves,omitempty"`
	Features []Feature `json:"features,omitempty"`
}

// Leaf names the callable and port taint ultimately originates from.
type Leaf struct {
	Name string `json:"name"`
	Port string `json:"port"`
}

func (f *Fragment) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = Fragment{}
	switch {
	case raw["call"] != nil:
		f.Kind = FragmentCall
		f.Call = &CallInfo{}
		if err := json.Unmarshal(raw["call"], f.Call); err != nil {
			return fmt.Errorf("invalid call fragment: %w", err)
		}
	case raw["origin"] != nil:
		f.Kind = FragmentOrigin
		f.Origin = &Location{}
		if err := json.Unmarshal(raw["origin"], f.Origin); err != nil {
			return fmt.Errorf("invalid origin fragment: %w", err)
		}
	default:
		if _, ok := raw["declaration"]; !ok {
			return fmt.Errorf("unknown trace fragment: expected one of call, origin or declaration")
		}
		f.Kind = FragmentDeclaration
	}

	if kinds, ok := raw["kinds"]; ok {
		if err := json.Unmarshal(kinds, &f.Kinds); err != nil {
			return fmt.Errorf("invalid kinds: %w", err)
		}
	}
	if features, ok := raw["local_features"]; ok {
		if err := json.Unmarshal(features, &f.LocalFeatures); err != nil {
			return fmt.Errorf("invalid local features: %w", err)
		}
	}
	return nil
}

// Feature is one analyzer annotation, e.g. {"always-via": "customgetattr"}.
// Only string valued entries are kept.
type Feature map[string]string

const (
	FeatureVia       = "via"
	FeatureAlwaysVia = "always-via"
)

func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = make(Feature, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			continue
		}
		(*f)[key] = s
	}
	return nil
}

// Via returns the value of the "via" annotation.
func (f Feature) Via() (string, bool) {
	v, ok := f[FeatureVia]
	return v, ok
}

// AlwaysVia returns the value of the "always-via" annotation.
func (f Feature) AlwaysVia() (string, bool) {
	v, ok := f[FeatureAlwaysVia]
	return v, ok
}

// Output holds all records of one taint output stream.
type Output struct {
	Models []Model
	Issues []Issue
}
