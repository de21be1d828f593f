package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"ISQM/internal/calc/flow"
	"ISQM/internal/feedback"
	"ISQM/internal/i18n"
	"ISQM/internal/metrics"

	"go.uber.org/zap"
)

type Handler struct {
	Registry *flow.Registry
	Bundle   *i18n.Bundle
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	tr := h.Bundle.ForRequest(r)
	c, ok := h.Registry.Lookup(input.Type)
	if !ok {
		http.Error(w, tr.T(i18n.CalcUnknownCalculator, nil), http.StatusBadRequest)
		return
	}
	sheet, rep, ok := Build(c, tr, input, time.Now())
	if !ok {
		feedback.WriteJSON(w, http.StatusUnprocessableEntity, rep)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, sheet, tr); err != nil {
		h.Log.Error("render report", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	h.Metrics.Count(c.Name(), metrics.ActionReport)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
