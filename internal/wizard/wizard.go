// Package wizard holds the three-step selection flow shared by the HTML pages
// and the terminal front-end. State is kept in memory only.
package wizard

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/kota-mizu/skill-builder/internal/catalog"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/kota-mizu/skill-builder/internal/suggestion"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state. The state is left unchanged.
	ErrInvalidTransition = errors.New("wizard: invalid transition")
	// ErrBusy is returned when a generate request is already outstanding.
	ErrBusy = errors.New("wizard: request already in flight")
)

// Generator produces a suggestion for a submission. It is satisfied by the
// HTTP client and by the in-process service.
type Generator interface {
	Generate(ctx context.Context, sub suggestion.Submission) (suggestion.Suggestion, error)
}

type Wizard struct {
	mu    sync.Mutex
	state State

	gen            Generator
	log            *logger.Logger
	fixedBiz       []string
	fixedInterests []string
}

type Option func(*Wizard)

// WithState resumes the wizard at st, e.g. from form fields.
func WithState(st State) Option {
	return func(w *Wizard) {
		if st != nil {
			w.state = copyState(st)
		}
	}
}

// WithSelection starts at Selecting with tags already chosen.
func WithSelection(tags []string) Option {
	return WithState(Selecting{Selected: tags})
}

func WithLogger(l *logger.Logger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.log = l
		}
	}
}

// WithFixedInputs overrides the business skills and interests sent with
// every request.
func WithFixedInputs(biz, interests []string) Option {
	return func(w *Wizard) {
		w.fixedBiz = slices.Clone(biz)
		w.fixedInterests = slices.Clone(interests)
	}
}

// WithCatalog takes the fixed inputs from c.
func WithCatalog(c *catalog.Catalog) Option {
	if c == nil {
		return func(*Wizard) {}
	}
	return WithFixedInputs(c.FixedBizSkills, c.FixedInterests)
}

func New(gen Generator, opts ...Option) *Wizard {
	def := catalog.Default()
	w := &Wizard{
		state:          Selecting{Selected: []string{}},
		gen:            gen,
		log:            logger.NewNop(),
		fixedBiz:       def.FixedBizSkills,
		fixedInterests: def.FixedInterests,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns a copy of the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyState(w.state)
}

// Busy reports whether a generate request is outstanding.
func (w *Wizard) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.state.(Confirming)
	return ok && c.Busy
}

func (w *Wizard) Progress() float64 {
	return Progress(w.State())
}

// Toggle adds tag to the selection, or removes it if already present.
// New tags are appended so the display keeps insertion order.
func (w *Wizard) Toggle(tag string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.state.(Selecting)
	if !ok {
		return ErrInvalidTransition
	}
	sel := slices.Clone(s.Selected)
	if i := slices.Index(sel, tag); i >= 0 {
		sel = slices.Delete(sel, i, i+1)
	} else {
		sel = append(sel, tag)
	}
	w.state = Selecting{Selected: sel}
	return nil
}

// Next moves from Selecting to Confirming. Any number of tags, including
// none, may be selected.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.state.(Selecting)
	if !ok {
		return ErrInvalidTransition
	}
	w.state = Confirming{Selected: s.Selected}
	return nil
}

// RequestSuggestion sends the selection with the fixed business skills and
// interests. On success the wizard moves to Result. On failure it stays in
// Confirming and the error is logged; the returned error is for diagnostics.
func (w *Wizard) RequestSuggestion(ctx context.Context) error {
	w.mu.Lock()
	c, ok := w.state.(Confirming)
	switch {
	case !ok:
		w.mu.Unlock()
		return ErrInvalidTransition
	case c.Busy:
		w.mu.Unlock()
		return ErrBusy
	}
	sel := slices.Clone(c.Selected)
	w.state = Confirming{Selected: sel, Busy: true}
	sub := suggestion.Submission{
		TechSkills: slices.Clone(sel),
		BizSkills:  slices.Clone(w.fixedBiz),
		Interests:  slices.Clone(w.fixedInterests),
	}
	w.mu.Unlock()

	if sub.TechSkills == nil {
		sub.TechSkills = []string{}
	}
	sg, err := w.gen.Generate(ctx, sub)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.log.Error("generate request failed", "selected", len(sel), "error", err)
		w.state = Confirming{Selected: sel}
		return err
	}
	w.state = Result{Selected: sel, Suggestion: sg}
	return nil
}

// Restart returns from Result to Selecting. The selection is kept.
func (w *Wizard) Restart() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.state.(Result)
	if !ok {
		return ErrInvalidTransition
	}
	w.state = Selecting{Selected: r.Selected}
	return nil
}
