package ui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/app"
	"movilidad/internal/api"
	"movilidad/internal/assets"
	"movilidad/internal/classify"
	"movilidad/internal/testkit"
)

type noopInvalidator struct{}

func (noopInvalidator) Invalidate() {}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	repo := testkit.NewRepository(testkit.DefaultHouseholdConfig())
	match := app.NewMatchService(assets.NewCache(repo, nil), nil, nil, 20, nil)
	class := app.NewClassService(classify.NewService(repo.ModelLoader(), nil), nil)
	apiHandler := api.NewHandler(match, class, noopInvalidator{}, nil).Router()

	srv, err := NewServer(os.DirFS(".."), match, class, apiHandler, Config{Neighbors: 20, GinMode: gin.TestMode}, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func post(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexListsTargetsAndQuestions(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/?target=OBJ_subieron")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ascendieron")
	assert.Contains(t, body, `name="q_`)
	assert.Contains(t, body, "Ejecutar")
}

func TestIndexUnknownTarget(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/?target=OBJ_nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Objetivo desconocido.")
}

func TestRunRendersResults(t *testing.T) {
	h := newTestServer(t)

	rec := post(h, "/ejecutar", url.Values{
		"target": {"OBJ_subieron"},
		"q_p05":  {"2"},
		"q_p86":  {"40"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Resultados")
	assert.True(t, strings.Contains(body, "Grupo #1") || strings.Contains(body, "Sin resultados."))
}

func TestExplainWithoutModel(t *testing.T) {
	h := newTestServer(t)

	rec := post(h, "/explicar", url.Values{"target": {"OBJ_subieron"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Explicación")
}

func TestClassPages(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/clase")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Microondas")

	rec = post(h, "/clase", url.Values{"f_p126d": {"1"}, "f_p131": {"1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Clase estimada")
	assert.Contains(t, rec.Body.String(), "%")
}

func TestAPIMounted(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/api/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaticServed(t *testing.T) {
	h := newTestServer(t)

	rec := get(h, "/static/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}
