package labeling

import (
	stderrors "errors"

	"github.com/charmbracelet/huh"

	"github.com/scan-io-git/class-pollution-detection/internal/results"
)

// ErrAborted is returned by a Prompter when the reviewer quits the session.
var ErrAborted = stderrors.New("labeling aborted by reviewer")

// Prompter asks the reviewer for a verdict.
type Prompter interface {
	SelectLabel() (results.LabelKind, error)
	SelectReasons() ([]results.ReasonKind, error)
	OtherNotes() (string, error)
}

// FormPrompter asks through interactive terminal forms.
type FormPrompter struct{}

func (FormPrompter) SelectLabel() (results.LabelKind, error) {
	kind := results.LabelUnlabeled
	err := huh.NewSelect[results.LabelKind]().
		Title("Select label to apply to this issue:").
		Options(
			huh.NewOption("Unlabeled (skip)", results.LabelUnlabeled),
			huh.NewOption("Vulnerable", results.LabelVulnerable),
			huh.NewOption("Not vulnerable", results.LabelNotVulnerable),
		).
		Value(&kind).
		Run()
	return kind, formError(err)
}

func (FormPrompter) SelectReasons() ([]results.ReasonKind, error) {
	options := make([]huh.Option[results.ReasonKind], len(results.ReasonKinds))
	for i, kind := range results.ReasonKinds {
		options[i] = huh.NewOption(string(kind), kind)
	}

	var reasons []results.ReasonKind
	err := huh.NewMultiSelect[results.ReasonKind]().
		Title("Why is this not vulnerable?").
		Options(options...).
		Value(&reasons).
		Run()
	return reasons, formError(err)
}

func (FormPrompter) OtherNotes() (string, error) {
	var notes string
	err := huh.NewInput().
		Title("What's the reason for this issue to not be vulnerable?").
		Value(&notes).
		Run()
	return notes, formError(err)
}

func formError(err error) error {
	if stderrors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
