package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ISQM/internal/i18n"
	"ISQM/internal/repo"
	"ISQM/internal/session"
)

func newEnv() (*Authenv, *repo.Memory) {
	store := repo.NewMemory()
	return &Authenv{
		JWTkey:       []byte("test-key"),
		Users:        store,
		Profiles:     store,
		Institutions: store,
		Bundle:       i18n.MustLoad(i18n.LangMS),
		Log:          zap.NewNop(),
	}, store
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/register?lang=en", strings.NewReader(body)))
	return rec
}

func TestTokenRoundTrip(t *testing.T) {
	env, _ := newEnv()
	tok, err := env.IssueToken(session.Session{UserID: "u1", Email: "a@b.co"}, time.Now())
	require.NoError(t, err)

	s, err := env.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "a@b.co", s.Email)

	expired, err := env.IssueToken(session.Session{UserID: "u1"}, time.Now().Add(-2*TokenTTL))
	require.NoError(t, err)
	_, err = env.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := &Authenv{JWTkey: []byte("other")}
	_, err = other.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsNonHMAC(t *testing.T) {
	env, _ := newEnv()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = env.ParseToken(tok)
	assert.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	env, _ := newEnv()

	rec := post(env.RegisterHandler, `{"email":"bad","password":"123","userType":"student"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Enter a valid email address.")
	assert.Contains(t, body, "Password must be at least 6 characters.")
	assert.Contains(t, body, "Choose your institution.")
	assert.NotContains(t, body, "Enter your company name.")

	rec = post(env.RegisterHandler, `{"email":"a@b.co","password":"secret1","userType":"admin"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Choose whether you are a student or a worker.")
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	env, store := newEnv()

	rec := post(env.RegisterHandler,
		`{"email":" aina@uni.my ","password":"secret1","fullName":"Aina","userType":"worker","companyName":"Acme","institutionId":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	var body struct {
		User session.Session `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "aina@uni.my", body.User.Email)

	p, err := store.GetProfile(context.Background(), body.User.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", *p.CompanyName)
	assert.Nil(t, p.InstitutionID)

	rec = post(env.RegisterHandler, `{"email":"AINA@uni.my","password":"secret1","userType":"worker","companyName":"Acme"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "An account with this email already exists.")
}

func TestRegisterStoresLowercaseEmail(t *testing.T) {
	env, store := newEnv()
	rec := post(env.RegisterHandler, `{"email":"Aina@Uni.MY","password":"secret1","userType":"worker","companyName":"Acme"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	u, err := store.GetByEmail(context.Background(), "aina@uni.my")
	require.NoError(t, err)
	assert.Equal(t, "aina@uni.my", u.Email)

	rec = post(env.AuthHandler, `{"email":"AINA@uni.my","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"aina@uni.my"`)
}

func TestRegisterChecksInstitution(t *testing.T) {
	env, store := newEnv()
	ctx := context.Background()

	rec := post(env.RegisterHandler, `{"email":"siti@uni.my","password":"secret1","userType":"student","institutionId":"no-such-id"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Choose your institution.")
	_, err := store.GetByEmail(ctx, "siti@uni.my")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = store.UpsertInstitutions(ctx, []repo.Institution{{ID: "inst-1", Name: "Politeknik Ungku Omar", Category: "POLYTECHNIC"}})
	require.NoError(t, err)
	rec = post(env.RegisterHandler, `{"email":"siti@uni.my","password":"secret1","userType":"student","institutionId":"inst-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	u, err := store.GetByEmail(ctx, "siti@uni.my")
	require.NoError(t, err)
	p, err := store.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "inst-1", *p.InstitutionID)
	assert.Equal(t, "Politeknik Ungku Omar", *p.Institution)
}

func TestRegisterInstitutionLookupFails(t *testing.T) {
	env, store := newEnv()
	store.Err = errors.New("connection refused")
	rec := post(env.RegisterHandler, `{"email":"siti@uni.my","password":"secret1","userType":"student","institutionId":"inst-1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong. Please try again.")
}

func TestLoginSetsCookie(t *testing.T) {
	env, store := newEnv()
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	id, err := store.CreateUser(context.Background(), "aina@uni.my", hash)
	require.NoError(t, err)

	rec := post(env.AuthHandler, `{"email":"aina@uni.my","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")

	rec = post(env.AuthHandler, `{"email":"nobody@uni.my","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(env.AuthHandler, `{"email":"aina@uni.my","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	s, err := env.ParseToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, id, s.UserID)
}

func TestLogoutClearsCookie(t *testing.T) {
	env, _ := newEnv()
	rec := post(env.LogoutHandler, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAuthMiddleware(t *testing.T) {
	env, _ := newEnv()
	var got session.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = session.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := env.AuthMiddleware(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/history?lang=en", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your session has ended. Please sign in again.")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/", rec.Header().Get("Location"))

	tok, err := env.IssueToken(session.Session{UserID: "u1", Email: "a@b.co"}, time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/user/history", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u1", got.UserID)
}

func TestOptionalSession(t *testing.T) {
	env, _ := newEnv()
	h := env.OptionalSession(http.HandlerFunc(env.SessionHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := env.IssueToken(session.Session{UserID: "u1"}, time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"u1"`)
}

func TestLimitMiddleware(t *testing.T) {
	l := NewIPRateLimiter(0, 2)
	h := l.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:" + string(rune('1'+i)) + "000"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
