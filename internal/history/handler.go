package history

import (
	"bytes"
	"errors"
	"net/http"

	"ISQM/internal/feedback"
	"ISQM/internal/i18n"
	"ISQM/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Service *Service
	Bundle  *i18n.Bundle
	Log     *zap.Logger
}

type listItem struct {
	Entry
	TypeLabel     string       `json:"type_label"`
	ResultDisplay string       `json:"result_display"`
	OutputItems   []OutputItem `json:"output_items"`
}

type listResponse struct {
	Filters struct {
		Type string `json:"type"`
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"filters"`
	Items []listItem `json:"items"`
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (Filters, []Entry, bool) {
	tr := h.Bundle.ForRequest(r)
	f, err := ParseFilters(r.URL.Query(), h.Service.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return f, nil, false
	}
	entries, err := h.Service.List(r.Context(), f)
	if err != nil {
		h.Log.Warn("list history", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotSignedIn) {
			status = http.StatusUnauthorized
		}
		feedback.WriteNotice(w, status, feedback.New(tr, feedback.Error,
			i18n.ModalLoadFailTitle, i18n.ModalLoadFailMsg,
			i18n.Params{"error": Reason(err, tr, i18n.HistoryLoadFailed)}))
		return f, nil, false
	}
	return f, entries, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, entries, ok := h.load(w, r)
	if !ok {
		return
	}
	tr := h.Bundle.ForRequest(r)
	var resp listResponse
	resp.Filters.Type = string(f.Type)
	resp.Filters.From = f.From.Format(dateLayout)
	resp.Filters.To = f.To.Format(dateLayout)
	resp.Items = make([]listItem, 0, len(entries))
	for _, e := range entries {
		resp.Items = append(resp.Items, listItem{
			Entry:         e,
			TypeLabel:     TypeLabel(e.Type, tr),
			ResultDisplay: FormatResult(e),
			OutputItems:   OutputItems(e, tr),
		})
	}
	feedback.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, func() error { return h.Service.Delete(r.Context(), mux.Vars(r)["id"]) })
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, func() error { return h.Service.Clear(r.Context()) })
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, del func() error) {
	tr := h.Bundle.ForRequest(r)
	if err := del(); err != nil {
		h.Log.Warn("delete history", zap.Error(err))
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, repo.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrNotSignedIn):
			status = http.StatusUnauthorized
		}
		feedback.WriteNotice(w, status, feedback.New(tr, feedback.Error,
			i18n.ModalDeleteFailTitle, i18n.ModalDeleteFailMsg,
			i18n.Params{"error": Reason(err, tr, i18n.CommonTryAgain)}))
		return
	}
	feedback.WriteNotice(w, http.StatusOK, feedback.New(tr, feedback.Success,
		i18n.ModalDeleteSuccessTitle, i18n.ModalDeleteSuccessMsg, nil))
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	_, entries, ok := h.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, entries, h.Bundle.ForRequest(r)); err != nil {
		h.Log.Error("export xlsx", zap.Error(err))
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"history.xlsx\"")
	w.Write(buf.Bytes())
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	_, entries, ok := h.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, entries, h.Bundle.ForRequest(r), h.Service.Now()); err != nil {
		h.Log.Error("export pdf", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"history.pdf\"")
	w.Write(buf.Bytes())
}
