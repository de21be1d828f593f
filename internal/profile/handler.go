package profile

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ISQM/internal/feedback"
	"ISQM/internal/form"
	"ISQM/internal/i18n"
	"ISQM/internal/repo"
	"ISQM/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxUploadSize = 10 << 20 // 10MB

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true}

type ProfileHandler struct {
	Service   *Service
	Bundle    *i18n.Bundle
	Log       *zap.Logger
	UploadDir string
}

type response struct {
	Profile          repo.Profile     `json:"profile"`
	InstitutionLabel string           `json:"institution_label,omitempty"`
	Report           *form.Report     `json:"report,omitempty"`
	Notice           *feedback.Notice `json:"notice,omitempty"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	prof, err := h.Service.FetchOrCreate(r.Context(), sess.UserID)
	if err != nil {
		h.Log.Error("fetch profile", zap.String("user_id", sess.UserID), zap.Error(err))
		tr := h.Bundle.ForRequest(r)
		n := feedback.Notice{Variant: feedback.Error, Title: tr.T(i18n.ModalLoadFailTitle, nil), Message: tr.T(ErrorKey(err), nil)}
		feedback.WriteNotice(w, http.StatusInternalServerError, n)
		return
	}
	feedback.WriteJSON(w, http.StatusOK, response{
		Profile:          prof,
		InstitutionLabel: h.Service.InstitutionLabel(r.Context(), prof),
	})
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	tr := h.Bundle.ForRequest(r)
	sess, ok := session.FromContext(r.Context())
	if !ok {
		n := feedback.Notice{Variant: feedback.Error, Title: tr.T(i18n.ProfileSaveError, nil), Message: tr.T(i18n.ProfileNeedSignIn, nil)}
		feedback.WriteNotice(w, http.StatusUnauthorized, n)
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	prof, rep, err := h.Service.Update(r.Context(), tr, sess.UserID, patch)
	if err != nil {
		h.Log.Warn("update profile", zap.String("user_id", sess.UserID), zap.Error(err))
		n := feedback.Notice{Variant: feedback.Error, Title: tr.T(i18n.ProfileSaveError, nil), Message: tr.T(ErrorKey(err), nil)}
		feedback.WriteNotice(w, http.StatusInternalServerError, n)
		return
	}
	if rep.HasErrors {
		n := feedback.New(tr, feedback.Error, i18n.ModalValidationTitle, i18n.ModalValidationMsg, nil)
		feedback.WriteJSON(w, http.StatusUnprocessableEntity, response{Profile: prof, Report: &rep, Notice: &n})
		return
	}
	n := feedback.Notice{Variant: feedback.Success, Title: tr.T(i18n.ProfileSaveSuccess, nil), Message: tr.T(i18n.ProfileSaveSuccess, nil)}
	feedback.WriteJSON(w, http.StatusOK, response{
		Profile:          prof,
		InstitutionLabel: h.Service.InstitutionLabel(r.Context(), prof),
		Report:           &rep,
		Notice:           &n,
	})
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "File too big", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExts[ext] {
		http.Error(w, "Unsupported image type", http.StatusBadRequest)
		return
	}
	if err := os.MkdirAll(h.UploadDir, 0755); err != nil {
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}

	fileName := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(h.UploadDir, fileName), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	if _, err := io.Copy(f, file); err != nil {
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}

	imagePath := "/uploads/" + fileName
	if _, err := h.Service.FetchOrCreate(r.Context(), sess.UserID); err != nil {
		h.Log.Error("avatar profile", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if err := h.Service.Profiles.UpdateAvatar(r.Context(), sess.UserID, imagePath); err != nil {
		h.Log.Error("avatar update", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	feedback.WriteJSON(w, http.StatusCreated, map[string]string{"avatar_url": imagePath})
}
