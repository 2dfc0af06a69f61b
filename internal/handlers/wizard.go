package handlers

import (
	"net/http"
	"slices"

	"github.com/kota-mizu/skill-builder/internal/catalog"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/kota-mizu/skill-builder/internal/middleware"
	"github.com/kota-mizu/skill-builder/internal/wizard"
	"github.com/kota-mizu/skill-builder/view"
)

// WizardHandler serves the three wizard pages. The selection travels in
// repeated "skill" form fields; nothing is kept on the server between
// requests.
type WizardHandler struct {
	gen     wizard.Generator
	catalog *catalog.Catalog
	log     *logger.Logger
}

func NewWizardHandler(gen wizard.Generator, cat *catalog.Catalog, log *logger.Logger) *WizardHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &WizardHandler{gen: gen, catalog: cat, log: log}
}

// selection reads the skill fields, keeping known tags in order, once each.
func (h *WizardHandler) selection(r *http.Request) []string {
	_ = r.ParseForm()
	out := []string{}
	for _, tag := range r.Form["skill"] {
		if h.catalog.HasTech(tag) && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func (h *WizardHandler) newWizard(r *http.Request, st wizard.State) *wizard.Wizard {
	return wizard.New(h.gen,
		wizard.WithState(st),
		wizard.WithCatalog(h.catalog),
		wizard.WithLogger(middleware.Logger(r.Context(), h.log)),
	)
}

func (h *WizardHandler) render(w http.ResponseWriter, r *http.Request, wz *wizard.Wizard) {
	st := wz.State()
	data := map[string]any{
		"Progress": wizard.Progress(st),
		"Skills":   h.catalog.TechSkills,
		"Selected": st.Selection(),
	}
	page := "selecting.html"
	switch s := st.(type) {
	case wizard.Confirming:
		page = "confirming.html"
		data["Busy"] = s.Busy
	case wizard.Result:
		page = "result.html"
		data["Suggestion"] = s.Suggestion
	}
	if err := view.Render(w, r, http.StatusOK, page, data); err != nil {
		middleware.Logger(r.Context(), h.log).Error("render failed", "page", page, "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// Index renders step 1.
func (h *WizardHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.newWizard(r, wizard.Selecting{Selected: h.selection(r)}))
}

// Toggle flips one tag in the selection and re-renders step 1. Unknown tags
// are ignored.
func (h *WizardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	wz := h.newWizard(r, wizard.Selecting{Selected: h.selection(r)})
	if tag := r.FormValue("tag"); h.catalog.HasTech(tag) {
		_ = wz.Toggle(tag)
	}
	h.render(w, r, wz)
}

// Next moves to the confirmation step.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	wz := h.newWizard(r, wizard.Selecting{Selected: h.selection(r)})
	_ = wz.Next()
	h.render(w, r, wz)
}

// Generate requests the suggestion. On failure the wizard has already
// logged the cause and the confirmation page is shown again.
func (h *WizardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	wz := h.newWizard(r, wizard.Confirming{Selected: h.selection(r)})
	_ = wz.RequestSuggestion(r.Context())
	h.render(w, r, wz)
}

// Restart goes back to step 1 keeping the selection.
func (h *WizardHandler) Restart(w http.ResponseWriter, r *http.Request) {
	wz := h.newWizard(r, wizard.Result{Selected: h.selection(r)})
	_ = wz.Restart()
	h.render(w, r, wz)
}
