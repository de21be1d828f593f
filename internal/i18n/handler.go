package i18n

import (
	"encoding/json"
	"net/http"
	"time"
)

type Handler struct {
	Bundle *Bundle
}

type langRequest struct {
	Lang string `json:"lang"`
}

// SetLang stores the chosen language in a long-lived cookie.
func (h *Handler) SetLang(w http.ResponseWriter, r *http.Request) {
	var req langRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	lang, ok := ParseLang(req.Lang)
	if !ok {
		http.Error(w, "Unsupported language", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(lang),
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"lang": string(lang)})
}
