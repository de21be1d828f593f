package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"ISQM/internal/feedback"
	"ISQM/internal/form"
	"ISQM/internal/i18n"
	"ISQM/internal/profile"
	"ISQM/internal/repo"
	"ISQM/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	CookieName = "session_token"
	TokenTTL   = 30 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

type Authenv struct {
	JWTkey   []byte
	Users    repo.UserStore
	Profiles repo.ProfileStore
	// Institutions confirms a student's institution exists before the
	// account is created.
	Institutions repo.InstitutionStore
	Bundle       *i18n.Bundle
	Log          *zap.Logger
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.RWMutex
	r   rate.Limit
	b   int
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"fullName"`
	UserType      string `json:"userType"`
	InstitutionID string `json:"institutionId"`
	CompanyName   string `json:"companyName"`
}

type response struct {
	User   *session.Session `json:"user,omitempty"`
	Report *form.Report     `json:"report,omitempty"`
	Notice feedback.Notice  `json:"notice"`
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// LimitMiddleware throttles by remote address.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		limiter := i.getLimiter(ip)
		if !limiter.Allow() {
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NormalizeEmail is applied before an address is stored or looked up, so
// accounts are unique regardless of case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// RegisterFields validates the sign-up form.
func RegisterFields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "email", Validator: form.Email(tr)},
		{Name: "password", Validator: form.MinLength(tr, 6, i18n.AuthPasswordLength)},
		{Name: "userType", Validator: userType(tr)},
		{Name: "institutionId", Validator: form.Required(tr, i18n.AuthInstitution), Rule: form.WhenEquals("userType", profile.UserStudent)},
		{Name: "companyName", Validator: form.Required(tr, i18n.AuthCompany), Rule: form.WhenEquals("userType", profile.UserWorker)},
	}
}

func LoginFields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "email", Validator: form.Email(tr)},
		{Name: "password", Validator: form.MinLength(tr, 6, i18n.AuthPasswordLength)},
	}
}

func userType(tr i18n.Translator) form.Validator {
	return func(value string) string {
		switch strings.TrimSpace(value) {
		case profile.UserStudent, profile.UserWorker:
			return ""
		}
		return tr.T(i18n.AuthUserType, nil)
	}
}

// IssueToken signs a session for the user.
func (env *Authenv) IssueToken(s session.Session, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": s.UserID,
		"email":   s.Email,
		"exp":     now.Add(TokenTTL).Unix(),
	})
	return token.SignedString(env.JWTkey)
}

// ParseToken verifies the signature and expiry and returns the session.
func (env *Authenv) ParseToken(tokenString string) (session.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return session.Session{}, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return session.Session{}, ErrInvalidToken
	}
	return session.Session{UserID: userID, Email: email}, nil
}

func (env *Authenv) fromCookie(r *http.Request) (session.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return session.Session{}, false
	}
	s, err := env.ParseToken(cookie.Value)
	if err != nil {
		env.Log.Debug("rejected session cookie", zap.Error(err))
		return session.Session{}, false
	}
	return s, true
}

func (env *Authenv) RedirectIfLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := env.fromCookie(r); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware requires a valid session. API calls get a 401 notice,
// pages are redirected to the sign-in screen.
func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := env.fromCookie(r)
		if !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				tr := env.Bundle.ForRequest(r)
				feedback.WriteNotice(w, http.StatusUnauthorized,
					feedback.New(tr, feedback.Error, i18n.ModalLoadFailTitle, i18n.CommonSignInAgain, nil))
				return
			}
			http.Redirect(w, r, "/auth/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

// OptionalSession attaches the session when the cookie is valid and never rejects.
func (env *Authenv) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := env.fromCookie(r); ok {
			r = r.WithContext(session.WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

func (env *Authenv) addCookie(w http.ResponseWriter, s session.Session) error {
	now := time.Now()
	tokenString, err := env.IssueToken(s, now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Expires:  now.Add(TokenTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   env.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (env *Authenv) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   env.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (env *Authenv) invalid(w http.ResponseWriter, tr i18n.Translator, rep form.Report) {
	feedback.WriteJSON(w, http.StatusUnprocessableEntity, response{
		Report: &rep,
		Notice: feedback.New(tr, feedback.Error, i18n.ModalValidationTitle, i18n.ModalValidationMsg, nil),
	})
}

func (env *Authenv) fail(w http.ResponseWriter, tr i18n.Translator, status int, msg i18n.Key) {
	feedback.WriteNotice(w, status, feedback.New(tr, feedback.Error, i18n.ModalSaveFailTitle, msg, nil))
}

// RegisterHandler creates the account and its profile. No session is
// issued; the client signs in afterwards.
func (env *Authenv) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	tr := env.Bundle.ForRequest(r)
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Email = NormalizeEmail(req.Email)

	rep := form.Evaluate(RegisterFields(tr), map[string]string{
		"email":         req.Email,
		"password":      req.Password,
		"userType":      req.UserType,
		"institutionId": req.InstitutionID,
		"companyName":   req.CompanyName,
	}, form.Interaction{Submitted: true})
	if rep.HasErrors {
		env.invalid(w, tr, rep)
		return
	}
	if strings.TrimSpace(req.UserType) == profile.UserStudent {
		_, err := env.Institutions.GetInstitution(r.Context(), strings.TrimSpace(req.InstitutionID))
		if errors.Is(err, repo.ErrNotFound) {
			rep.Reject("institutionId", tr.T(i18n.AuthInstitution, nil))
			env.invalid(w, tr, rep)
			return
		}
		if err != nil {
			env.Log.Error("get institution", zap.Error(err))
			env.fail(w, tr, http.StatusInternalServerError, i18n.CommonTryAgain)
			return
		}
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	id, err := env.Users.CreateUser(r.Context(), req.Email, hashedPassword)
	if errors.Is(err, repo.ErrConflict) {
		env.fail(w, tr, http.StatusConflict, i18n.AuthEmailTaken)
		return
	}
	if err != nil {
		env.Log.Error("create user", zap.Error(err))
		env.fail(w, tr, http.StatusInternalServerError, i18n.CommonTryAgain)
		return
	}

	prof := profile.Normalize(repo.Profile{
		ID:            id,
		FullName:      &req.FullName,
		UserType:      &req.UserType,
		InstitutionID: &req.InstitutionID,
		CompanyName:   &req.CompanyName,
	})
	if _, err := env.Profiles.UpsertProfile(r.Context(), prof); err != nil {
		env.Log.Error("profile setup", zap.String("user_id", id), zap.Error(err))
		env.fail(w, tr, http.StatusInternalServerError, i18n.AuthProfileSetupFailed)
		return
	}

	env.Log.Info("registered", zap.String("user_id", id))
	feedback.WriteJSON(w, http.StatusCreated, response{
		User:   &session.Session{UserID: id, Email: req.Email},
		Notice: feedback.New(tr, feedback.Success, i18n.ModalSaveSuccessTitle, i18n.AuthRegistered, nil),
	})
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	tr := env.Bundle.ForRequest(r)
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Email = NormalizeEmail(req.Email)

	rep := form.Evaluate(LoginFields(tr), map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}, form.Interaction{Submitted: true})
	if rep.HasErrors {
		env.invalid(w, tr, rep)
		return
	}

	user, err := env.Users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		env.Log.Error("get user", zap.Error(err))
		env.fail(w, tr, http.StatusInternalServerError, i18n.CommonTryAgain)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		env.fail(w, tr, http.StatusUnauthorized, i18n.AuthInvalidCredentials)
		return
	}

	s := session.Session{UserID: user.ID, Email: user.Email}
	if err := env.addCookie(w, s); err != nil {
		env.Log.Error("sign token", zap.Error(err))
		env.fail(w, tr, http.StatusInternalServerError, i18n.CommonTryAgain)
		return
	}
	feedback.WriteJSON(w, http.StatusOK, response{
		User:   &s,
		Notice: feedback.New(tr, feedback.Success, i18n.ModalSaveSuccessTitle, i18n.AuthLoggedIn, nil),
	})
}

func (env *Authenv) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	env.clearCookie(w)
	tr := env.Bundle.ForRequest(r)
	feedback.WriteJSON(w, http.StatusOK, response{
		Notice: feedback.New(tr, feedback.Info, i18n.AuthLoggedOut, i18n.AuthLoggedOut, nil),
	})
}

// SessionHandler reports the signed-in user, or 401 with a null user.
func (env *Authenv) SessionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		feedback.WriteJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}
	feedback.WriteJSON(w, http.StatusOK, map[string]any{"user": s})
}
