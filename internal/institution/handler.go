package institution

import (
	"net/http"

	"ISQM/internal/feedback"
	"ISQM/internal/i18n"
	"ISQM/internal/repo"

	"go.uber.org/zap"
)

type Handler struct {
	Directory *Directory
	Bundle    *i18n.Bundle
	Log       *zap.Logger
}

type item struct {
	repo.Institution
	Label         string `json:"label"`
	CategoryLabel string `json:"category_label"`
}

type searchResponse struct {
	Items   []item `json:"items"`
	Total   int    `json:"total"`
	Popular bool   `json:"popular"`
}

// Search serves GET /api/institutions?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	tr := h.Bundle.ForRequest(r)
	list, err := h.Directory.List(r.Context())
	if err != nil {
		h.Log.Error("list institutions", zap.Error(err))
		feedback.WriteNotice(w, http.StatusInternalServerError,
			feedback.New(tr, feedback.Error, i18n.ModalLoadFailTitle, i18n.InstitutionLoadFailed, nil))
		return
	}
	q := r.URL.Query().Get("q")
	matches, total := Search(list, q)
	resp := searchResponse{Items: make([]item, 0, len(matches)), Total: total, Popular: Normalize(q) == ""}
	for _, inst := range matches {
		resp.Items = append(resp.Items, item{
			Institution:   inst,
			Label:         DisplayName(inst),
			CategoryLabel: CategoryLabel(tr, inst.Category),
		})
	}
	feedback.WriteJSON(w, http.StatusOK, resp)
}
