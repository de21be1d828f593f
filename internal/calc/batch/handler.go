package batch

import (
	"encoding/json"
	"errors"
	"net/http"

	"ISQM/internal/calc/flow"
	"ISQM/internal/feedback"
	"ISQM/internal/i18n"
	"ISQM/internal/metrics"
)

type Handler struct {
	Registry *flow.Registry
	Bundle   *i18n.Bundle
	Metrics  *metrics.Metrics
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	tr := h.Bundle.ForRequest(r)
	res, err := Calculate(h.Registry, tr, input)
	switch {
	case errors.Is(err, ErrEmpty):
		http.Error(w, tr.T(i18n.CalcEmptyBatch, nil), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	for _, item := range res.Results {
		h.Metrics.Count(h.label(item.Type), metrics.ActionBatch)
	}
	feedback.WriteJSON(w, http.StatusOK, res)
}

// label keeps client-supplied types out of the metric labels.
func (h *Handler) label(calcType string) string {
	if _, ok := h.Registry.Lookup(calcType); ok {
		return calcType
	}
	return "unknown"
}
