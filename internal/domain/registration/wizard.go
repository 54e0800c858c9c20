package registration

import (
	"errors"
	"fmt"
)

var ErrNotFinalStep = errors.New("submit is only allowed on the final step")

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Wizard is the three-step registration form. It never stores anything; a
// submitted draft is handed to the employee service.
type Wizard struct {
	step      Step
	mode      Mode
	editingID string
	draft     Draft
}

func New() *Wizard {
	return &Wizard{step: FirstStep, mode: ModeCreate}
}

// ForEdit opens the wizard prefilled with an existing record.
func ForEdit(id string, d Draft) *Wizard {
	return &Wizard{step: FirstStep, mode: ModeEdit, editingID: id, draft: d}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Mode() Mode { return w.mode }

func (w *Wizard) EditingID() string { return w.editingID }

func (w *Wizard) Draft() Draft { return w.draft }

func (w *Wizard) SetDraft(d Draft) { w.draft = d }

// Update applies f to the draft in place, like typing into the form.
func (w *Wizard) Update(f func(*Draft)) { f(&w.draft) }

// Next validates the current step and advances. On failure the step does not
// change. On the last step a successful Next is a no-op.
func (w *Wizard) Next() error {
	if issues := ValidateStep(w.step, w.draft); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	if w.step < LastStep {
		w.step++
	}
	return nil
}

func (w *Wizard) Previous() {
	if w.step > FirstStep {
		w.step--
	}
}

// Submit validates every step and returns the final draft.
func (w *Wizard) Submit() (Draft, error) {
	if w.step != LastStep {
		return Draft{}, fmt.Errorf("%w: on %s", ErrNotFinalStep, w.step)
	}
	if err := Check(w.draft); err != nil {
		return Draft{}, err
	}
	return w.draft, nil
}

// Reset returns the wizard to an empty create form.
func (w *Wizard) Reset() {
	*w = Wizard{step: FirstStep, mode: ModeCreate}
}

// StepResult is the outcome of validating one step in isolation.
type StepResult struct {
	Step     Step    `json:"step"`
	Valid    bool    `json:"valid"`
	NextStep Step    `json:"nextStep"`
	Issues   []Issue `json:"issues"`
}

// Evaluate validates step against d and reports where the form goes next.
func Evaluate(step Step, d Draft) StepResult {
	issues := ValidateStep(step, d)
	result := StepResult{Step: step, Valid: len(issues) == 0, NextStep: step, Issues: issues}
	if result.Issues == nil {
		result.Issues = []Issue{}
	}
	if result.Valid && step < LastStep {
		result.NextStep = step + 1
	}
	return result
}
