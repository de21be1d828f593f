package importer

import (
	"errors"
	"net/http"

	"ISQM/internal/calc/flow"
	"ISQM/internal/feedback"
	"ISQM/internal/i18n"
	"ISQM/internal/metrics"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxUpload = 10 << 20

type Handler struct {
	Registry *flow.Registry
	Bundle   *i18n.Bundle
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	tr := h.Bundle.ForRequest(r)
	c, ok := h.Registry.Lookup(mux.Vars(r)["type"])
	if !ok {
		http.Error(w, tr.T(i18n.CalcUnknownCalculator, nil), http.StatusNotFound)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(c, tr, file)
	if errors.Is(err, ErrEmptySheet) {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.Log.Info("import rejected", zap.String("type", c.Name()), zap.Error(err))
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	h.Metrics.Count(c.Name(), metrics.ActionImport)
	feedback.WriteJSON(w, http.StatusOK, res)
}
