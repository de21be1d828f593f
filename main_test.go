package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ISQM/internal/auth"
	"ISQM/internal/config"
	"ISQM/internal/i18n"
	"ISQM/internal/metrics"
	"ISQM/internal/repo"
	"ISQM/internal/session"
)

func newServer(t *testing.T) (http.Handler, *repo.Memory) {
	store := repo.NewMemory()
	cfg := config.Config{TokenKey: "test-key", UploadDir: t.TempDir(), StaticDir: t.TempDir(), RateLimit: 100, RateBurst: 100}
	r := mux.NewRouter()
	HandleList(r, App{Config: cfg, Store: store, Bundle: i18n.MustLoad(i18n.LangMS), Log: zap.NewNop(), Metrics: metrics.New()})
	return CORS(r), store
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicCalc(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodPost, "/api/tools/concrete/calc", `{"values":{"length":"2","width":"1","height":"0.5"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/api/tools/nope/calc", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBeamOverflowReturnsNotice(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodPost, "/api/tools/beam/calc?lang=en",
		`{"values":{"b":"1e200","h":"1e200","L":"1e200","barDiameter":"12","barLength":"4","barQty":"10"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "too large to calculate")
}

func TestUserRoutesNeedSession(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/api/user/history?lang=en", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your session has ended")
}

func TestSaveAndListHistory(t *testing.T) {
	h, _ := newServer(t)
	env := &auth.Authenv{JWTkey: []byte("test-key")}
	tok, err := env.IssueToken(session.Session{UserID: "u1", Email: "a@b.co"}, time.Now())
	require.NoError(t, err)
	cookie := &http.Cookie{Name: auth.CookieName, Value: tok}

	rec := do(h, http.MethodPost, "/api/user/tools/concrete/save", `{"values":{"length":"2","width":"1","height":"0.5"}}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(h, http.MethodGet, "/api/user/history", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"concrete"`)
}

func TestInstitutionsAndMetrics(t *testing.T) {
	h, store := newServer(t)
	_, err := store.UpsertInstitutions(context.Background(), []repo.Institution{{Name: "Politeknik Ungku Omar", Category: "POLYTECHNIC"}})
	require.NoError(t, err)

	rec := do(h, http.MethodGet, "/api/institutions?q=ungku", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Politeknik Ungku Omar")

	rec = do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "isqm_http_request_duration_seconds")
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodOptions, "/api/tools/beam/calc", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
