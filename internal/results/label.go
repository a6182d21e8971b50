package results

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LabelKind is the reviewer verdict of an issue.
type LabelKind string

const (
	LabelUnlabeled     LabelKind = "Unlabeled"
	LabelVulnerable    LabelKind = "Vulnerable"
	LabelNotVulnerable LabelKind = "NotVulnerable"
)

// Label is the reviewer judgement attached to an issue. Reasons is only
// meaningful for LabelNotVulnerable. The zero value is unlabeled.
//
// It is encoded as "Unlabeled", "Vulnerable" or {"NotVulnerable": {"reasons": [...]}}.
type Label struct {
	Kind    LabelKind
	Reasons []Reason
}

func Unlabeled() Label {
	return Label{Kind: LabelUnlabeled}
}

func Vulnerable() Label {
	return Label{Kind: LabelVulnerable}
}

func NotVulnerable(reasons ...Reason) Label {
	return Label{Kind: LabelNotVulnerable, Reasons: reasons}
}

// IsUnlabeled reports whether no verdict was recorded yet.
func (l Label) IsUnlabeled() bool {
	return l.Kind == "" || l.Kind == LabelUnlabeled
}

func (l Label) String() string {
	if l.IsUnlabeled() {
		return string(LabelUnlabeled)
	}
	if l.Kind != LabelNotVulnerable || len(l.Reasons) == 0 {
		return string(l.Kind)
	}
	reasons := make([]string, len(l.Reasons))
	for i, r := range l.Reasons {
		reasons[i] = r.String()
	}
	return fmt.Sprintf("%s (%s)", l.Kind, strings.Join(reasons, ", "))
}

type notVulnerableJSON struct {
	Reasons []Reason `json:"reasons"`
}

func (l Label) MarshalJSON() ([]byte, error) {
	switch {
	case l.IsUnlabeled():
		return json.Marshal(LabelUnlabeled)
	case l.Kind == LabelVulnerable:
		return json.Marshal(LabelVulnerable)
	case l.Kind == LabelNotVulnerable:
		reasons := l.Reasons
		if reasons == nil {
			reasons = []Reason{}
		}
		return json.Marshal(map[LabelKind]notVulnerableJSON{LabelNotVulnerable: {Reasons: reasons}})
	default:
		return nil, fmt.Errorf("unknown label %q", l.Kind)
	}
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch kind := LabelKind(name); kind {
		case LabelUnlabeled, LabelVulnerable:
			*l = Label{Kind: kind}
			return nil
		default:
			return fmt.Errorf("unknown label %q", name)
		}
	}

	var tagged map[LabelKind]notVulnerableJSON
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("invalid label: %w", err)
	}
	body, ok := tagged[LabelNotVulnerable]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("invalid label: expected a single %q entry", LabelNotVulnerable)
	}
	*l = Label{Kind: LabelNotVulnerable, Reasons: body.Reasons}
	return nil
}

// ReasonKind explains why an issue is not exploitable.
type ReasonKind string

const (
	ReasonModifiedReference ReasonKind = "ModifiedReference"
	ReasonNonRecursive      ReasonKind = "NonRecursive"
	ReasonFiltered          ReasonKind = "Filtered"
	ReasonNotControlled     ReasonKind = "NotControlled"
	ReasonOther             ReasonKind = "Other"
)

// ReasonKinds lists every reason in display order.
var ReasonKinds = []ReasonKind{
	ReasonModifiedReference,
	ReasonNonRecursive,
	ReasonFiltered,
	ReasonNotControlled,
	ReasonOther,
}

// Reason is a NotVulnerable justification. Notes is only used by ReasonOther.
//
// It is encoded as "Filtered" or {"Other": {"notes": "..."}}.
type Reason struct {
	Kind  ReasonKind
	Notes string
}

func (r Reason) String() string {
	if r.Kind == ReasonOther && r.Notes != "" {
		return fmt.Sprintf("%s: %s", r.Kind, r.Notes)
	}
	return string(r.Kind)
}

type otherJSON struct {
	Notes string `json:"notes"`
}

func (r Reason) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ReasonModifiedReference, ReasonNonRecursive, ReasonFiltered, ReasonNotControlled:
		return json.Marshal(r.Kind)
	case ReasonOther:
		return json.Marshal(map[ReasonKind]otherJSON{ReasonOther: {Notes: r.Notes}})
	default:
		return nil, fmt.Errorf("unknown reason %q", r.Kind)
	}
}

func (r *Reason) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch kind := ReasonKind(name); kind {
		case ReasonModifiedReference, ReasonNonRecursive, ReasonFiltered, ReasonNotControlled:
			*r = Reason{Kind: kind}
			return nil
		default:
			return fmt.Errorf("unknown reason %q", name)
		}
	}

	var tagged map[ReasonKind]otherJSON
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("invalid reason: %w", err)
	}
	body, ok := tagged[ReasonOther]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("invalid reason: expected a single %q entry", ReasonOther)
	}
	*r = Reason{Kind: ReasonOther, Notes: body.Notes}
	return nil
}
