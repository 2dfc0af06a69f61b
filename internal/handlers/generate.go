package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kota-mizu/skill-builder/httpx"
	"github.com/kota-mizu/skill-builder/i18n"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/kota-mizu/skill-builder/internal/middleware"
	"github.com/kota-mizu/skill-builder/internal/models"
	"github.com/kota-mizu/skill-builder/internal/services"
	"github.com/kota-mizu/skill-builder/internal/suggestion"
	"github.com/kota-mizu/skill-builder/validation"
)

const maxBodyBytes = 1 << 20

type GenerateHandler struct {
	svc *services.SuggestionService
	log *logger.Logger
}

func NewGenerateHandler(svc *services.SuggestionService, log *logger.Logger) *GenerateHandler {
	return &GenerateHandler{svc: svc, log: log}
}

// Generate handles POST /api/generate. The API always answers in Japanese;
// store errors are logged and replaced by a fixed message.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(r.Context(), h.log)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(i18n.DefaultLang, "invalid_request"), nil)
		return
	}
	sub, err := suggestion.Decode(body)
	if errors.Is(err, suggestion.ErrMalformedBody) {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(i18n.DefaultLang, "invalid_request"), nil)
		return
	}

	sg, err := h.svc.Generate(r.Context(), sub)
	if err != nil {
		log.Error("DB save error", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(i18n.DefaultLang, "save_failed"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, sg)
}

type projectView struct {
	ID         uint      `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	TechSkills []string  `json:"techSkills"`
	BizSkills  []string  `json:"bizSkills"`
	Interests  []string  `json:"interests"`
	Experience string    `json:"experience"`
	suggestion.Suggestion
}

func newProjectView(p models.Project) projectView {
	v := projectView{
		ID:         p.ID,
		CreatedAt:  p.CreatedAt,
		TechSkills: []string{},
		BizSkills:  []string{},
		Interests:  []string{},
		Suggestion: suggestion.FromProject(p),
	}
	if p.UserProfile != nil {
		v.TechSkills = append(v.TechSkills, p.UserProfile.TechSkills...)
		v.BizSkills = append(v.BizSkills, p.UserProfile.BizSkills...)
		v.Interests = append(v.Interests, p.UserProfile.Interests...)
		v.Experience = p.UserProfile.Experience
	}
	return v
}

// Recent handles GET /api/projects?limit=N.
func (h *GenerateHandler) Recent(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	limit := validation.OptionalInt("limit", r.URL.Query().Get("limit"), services.DefaultRecentLimit, v)
	validation.RangeInt("limit", limit, 1, services.MaxRecentLimit, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(i18n.DefaultLang, "invalid_request"), v)
		return
	}

	projects, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		middleware.Logger(r.Context(), h.log).Error("list projects failed", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	items := make([]projectView, 0, len(projects))
	for _, p := range projects {
		items = append(items, newProjectView(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}
