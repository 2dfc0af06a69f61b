package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kota-mizu/skill-builder/internal/catalog"
	"github.com/kota-mizu/skill-builder/internal/config"
	"github.com/kota-mizu/skill-builder/internal/db"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=1"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	cfg := &config.Config{App: config.AppConfig{Lang: "ja"}}
	return NewApp(conn, cfg, catalog.Default(), logger.NewNop())
}

func TestRoutes(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
		{http.MethodPost, "/api/generate", `{"techSkills":["AWS"]}`, http.StatusOK},
		{http.MethodGet, "/api/generate", "", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/generate", "{}", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/projects", "", http.StatusOK},
		{http.MethodGet, "/wizard/next", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestLanguageSwitch(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Step 1: Pick your tech stack")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "lang", cookies[0].Name)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`[]`))
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"リクエストが不正です"}`, rec.Body.String())
}
