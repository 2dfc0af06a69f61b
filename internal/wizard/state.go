package wizard

import (
	"slices"

	"github.com/kota-mizu/skill-builder/internal/suggestion"
)

// Step numbers shown to the user.
const (
	StepSelecting  = 1
	StepConfirming = 2
	StepResult     = 3

	stepCount = 3
)

// State is one of Selecting, Confirming or Result.
type State interface {
	Step() int
	Selection() []string
	isState()
}

// Selecting is step 1: the user picks technology skills.
type Selecting struct {
	Selected []string
}

// Confirming is step 2. Busy is set while a generate request is outstanding.
type Confirming struct {
	Selected []string
	Busy     bool
}

// Result is step 3 and always carries the suggestion that produced it.
type Result struct {
	Selected   []string
	Suggestion suggestion.Suggestion
}

func (Selecting) Step() int  { return StepSelecting }
func (Confirming) Step() int { return StepConfirming }
func (Result) Step() int     { return StepResult }

func (s Selecting) Selection() []string  { return slices.Clone(s.Selected) }
func (s Confirming) Selection() []string { return slices.Clone(s.Selected) }
func (s Result) Selection() []string     { return slices.Clone(s.Selected) }

func (Selecting) isState()  {}
func (Confirming) isState() {}
func (Result) isState()     {}

// Progress is the completion percentage for st.
func Progress(st State) float64 {
	return float64(st.Step()) / stepCount * 100
}

func copyState(st State) State {
	switch s := st.(type) {
	case Selecting:
		return Selecting{Selected: slices.Clone(s.Selected)}
	case Confirming:
		return Confirming{Selected: slices.Clone(s.Selected), Busy: s.Busy}
	case Result:
		return Result{Selected: slices.Clone(s.Selected), Suggestion: s.Suggestion}
	}
	return Selecting{}
}
