package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kota-mizu/skill-builder/internal/catalog"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/kota-mizu/skill-builder/internal/models"
	"github.com/kota-mizu/skill-builder/internal/services"
	"github.com/kota-mizu/skill-builder/internal/suggestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func postGenerate(h *GenerateHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	return rec
}

func TestGenerateSuccess(t *testing.T) {
	db := setupTestDB(t)
	h := NewGenerateHandler(services.NewSuggestionService(db, 0), logger.NewNop())

	rec := postGenerate(h, `{"techSkills":["TypeScript"],"bizSkills":["KPI設計"],"interests":["Fintech"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, strings.HasPrefix(got["title"], "TypeScript"), got["title"])
	assert.Contains(t, got["description"], "TypeScript")
	assert.Equal(t, suggestion.BusinessGoal, got["businessGoal"])
	assert.Equal(t, suggestion.TechnicalChallenge, got["technicalChallenge"])
	assert.Equal(t, suggestion.WinningDecision, got["winningDecision"])

	var profiles []models.UserProfile
	require.NoError(t, db.Preload("Projects").Find(&profiles).Error)
	require.Len(t, profiles, 1)
	require.Len(t, profiles[0].Projects, 1)
	assert.Equal(t, profiles[0].ID, profiles[0].Projects[0].UserProfileID)
	assert.Equal(t, got["title"], profiles[0].Projects[0].Title)
}

func TestGenerateEmptyLists(t *testing.T) {
	db := setupTestDB(t)
	h := NewGenerateHandler(services.NewSuggestionService(db, 0), logger.NewNop())

	for _, body := range []string{`{"techSkills":[],"bizSkills":[],"interests":[]}`, `{}`, `{"techSkills":"Go"}`} {
		rec := postGenerate(h, body)
		require.Equal(t, http.StatusOK, rec.Code, body)
		var got suggestion.Suggestion
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, strings.HasPrefix(got.Title, "技術"), got.Title)
	}
}

func TestGenerateRejectsNonObject(t *testing.T) {
	db := setupTestDB(t)
	h := NewGenerateHandler(services.NewSuggestionService(db, 0), logger.NewNop())

	for _, body := range []string{``, `[]`, `"TypeScript"`, `{not json`} {
		rec := postGenerate(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"リクエストが不正です"}`, rec.Body.String())
	}
	var n int64
	db.Model(&models.UserProfile{}).Count(&n)
	assert.Zero(t, n)
}

func TestGeneratePersistenceFailure(t *testing.T) {
	db := setupTestDB(t)
	h := NewGenerateHandler(services.NewSuggestionService(db, 0), logger.NewNop())
	closeDB(t, db)

	rec := postGenerate(h, `{"techSkills":["TypeScript"],"bizSkills":["KPI設計"],"interests":["Fintech"]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"保存に失敗しました"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "TypeScript")
}

func TestRecent(t *testing.T) {
	db := setupTestDB(t)
	h := NewGenerateHandler(services.NewSuggestionService(db, 0), logger.NewNop())
	postGenerate(h, `{"techSkills":["Go"],"bizSkills":["KPI設計"],"interests":["Fintech"]}`)
	postGenerate(h, `{"techSkills":["SQL"]}`)

	rec := httptest.NewRecorder()
	h.Recent(rec, httptest.NewRequest(http.MethodGet, "/api/projects?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Items []struct {
			Title      string   `json:"title"`
			TechSkills []string `json:"techSkills"`
			Experience string   `json:"experience"`
		} `json:"items"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 1, payload.Count)
	assert.Equal(t, "SQLを活用した新規プロダクト", payload.Items[0].Title)
	assert.Equal(t, []string{"SQL"}, payload.Items[0].TechSkills)
	assert.Equal(t, models.DefaultExperience, payload.Items[0].Experience)

	rec = httptest.NewRecorder()
	h.Recent(rec, httptest.NewRequest(http.MethodGet, "/api/projects?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"リクエストが不正です","details":{"limit":"not_a_number"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Recent(rec, httptest.NewRequest(http.MethodGet, "/api/projects?limit=1000", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "out_of_range")
}

func TestHealth(t *testing.T) {
	db := setupTestDB(t)
	h := NewHealthHandler(db)

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, rec.Body.String())

	closeDB(t, db)
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func postForm(fn http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestWizardPagesFlow(t *testing.T) {
	db := setupTestDB(t)
	h := NewWizardHandler(services.NewSuggestionService(db, 0), catalog.Default(), logger.NewNop())

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Step 1")
	assert.Contains(t, rec.Body.String(), ">Terraform</button>")

	rec = postForm(h.Toggle, "/wizard/toggle", url.Values{"skill": {"React"}, "tag": {"TypeScript"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="skill" value="React"`)
	assert.Contains(t, body, `name="skill" value="TypeScript"`)

	rec = postForm(h.Toggle, "/wizard/toggle", url.Values{"skill": {"React", "TypeScript"}, "tag": {"React"}})
	body = rec.Body.String()
	assert.NotContains(t, body, `name="skill" value="React"`)
	assert.Contains(t, body, `name="skill" value="TypeScript"`)

	rec = postForm(h.Next, "/wizard/next", url.Values{"skill": {"TypeScript"}})
	assert.Contains(t, rec.Body.String(), `action="/wizard/generate"`)

	rec = postForm(h.Generate, "/wizard/generate", url.Values{"skill": {"TypeScript"}})
	body = rec.Body.String()
	assert.Contains(t, body, "TypeScriptを活用したFintechプロダクト")
	assert.Contains(t, body, `action="/wizard/restart"`)

	var profile models.UserProfile
	require.NoError(t, db.First(&profile).Error)
	assert.Equal(t, []string{"KPI設計"}, []string(profile.BizSkills))
	assert.Equal(t, []string{"Fintech"}, []string(profile.Interests))

	rec = postForm(h.Restart, "/wizard/restart", url.Values{"skill": {"TypeScript"}})
	body = rec.Body.String()
	assert.Contains(t, body, "Step 1")
	assert.Contains(t, body, `name="skill" value="TypeScript"`)
}

func TestWizardIgnoresUnknownSkills(t *testing.T) {
	h := NewWizardHandler(nil, catalog.Default(), logger.NewNop())

	rec := postForm(h.Toggle, "/wizard/toggle", url.Values{"skill": {"<script>", "Go"}, "tag": {"COBOL"}})
	body := rec.Body.String()
	assert.NotContains(t, body, `value="COBOL"`)
	assert.NotContains(t, body, `value="Go"`)
	assert.NotContains(t, body, "<script>")
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, suggestion.Submission) (suggestion.Suggestion, error) {
	return suggestion.Suggestion{}, errors.New("store down")
}

func TestWizardGenerateFailureStaysOnConfirm(t *testing.T) {
	h := NewWizardHandler(failingGenerator{}, catalog.Default(), logger.NewNop())

	rec := postForm(h.Generate, "/wizard/generate", url.Values{"skill": {"AWS"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/wizard/generate"`)
	assert.Contains(t, body, `name="skill" value="AWS"`)
	assert.NotContains(t, body, "store down")
}
