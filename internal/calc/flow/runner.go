package flow

import (
	"encoding/json"
	"errors"
	"net/http"

	"ISQM/internal/feedback"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
	"ISQM/internal/metrics"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Runner serves validate, calc and save for every registered calculator.
type Runner struct {
	Registry *Registry
	Saver    history.Saver
	Bundle   *i18n.Bundle
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

type Request struct {
	Values    Values          `json:"values"`
	Touched   map[string]bool `json:"touched"`
	Submitted bool            `json:"submitted"`
}

type Response struct {
	Type    string           `json:"type"`
	Label   string           `json:"label"`
	Report  form.Report      `json:"report"`
	Result  *Outcome         `json:"result"`
	CanSave bool             `json:"can_save"`
	Entry   *history.Entry   `json:"entry,omitempty"`
	Notice  *feedback.Notice `json:"notice,omitempty"`
}

func (rn *Runner) decode(w http.ResponseWriter, r *http.Request) (Calculator, Request, bool) {
	var req Request
	name := mux.Vars(r)["type"]
	c, ok := rn.Registry.Lookup(name)
	if !ok {
		tr := rn.Bundle.ForRequest(r)
		http.Error(w, tr.T(i18n.CalcUnknownCalculator, nil), http.StatusNotFound)
		return nil, req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return nil, req, false
	}
	return c, req, true
}

func (req Request) interaction(forceSubmit bool) form.Interaction {
	in := form.Interaction{Touched: req.Touched, Submitted: req.Submitted}
	if forceSubmit {
		in.Submit()
	}
	return in
}

// Validate reports field states without computing.
func (rn *Runner) Validate(w http.ResponseWriter, r *http.Request) {
	c, req, ok := rn.decode(w, r)
	if !ok {
		return
	}
	rn.Metrics.Count(c.Name(), metrics.ActionValidate)
	tr := rn.Bundle.ForRequest(r)
	values := WithDefaults(c, req.Values)
	feedback.WriteJSON(w, http.StatusOK, form.Evaluate(c.Fields(tr), values, req.interaction(false)))
}

func (rn *Runner) Calc(w http.ResponseWriter, r *http.Request) {
	c, req, ok := rn.decode(w, r)
	if !ok {
		return
	}
	rn.Metrics.Count(c.Name(), metrics.ActionCalc)
	tr := rn.Bundle.ForRequest(r)
	resp, ok := rn.compute(c, tr, req)
	if !ok {
		feedback.WriteJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	feedback.WriteJSON(w, http.StatusOK, resp)
}

func (rn *Runner) compute(c Calculator, tr i18n.Translator, req Request) (Response, bool) {
	rep, out := Run(c, tr, req.Values, req.interaction(true))
	resp := Response{Type: c.Name(), Label: c.Label(tr), Report: rep, Result: out}
	if OutOfRange(rep, out) {
		n := feedback.New(tr, feedback.Error, i18n.ModalValidationTitle, i18n.CalcOutOfRange, nil)
		resp.Notice = &n
		return resp, false
	}
	if out == nil {
		n := feedback.New(tr, feedback.Error, i18n.ModalValidationTitle, i18n.ModalValidationMsg, nil)
		resp.Notice = &n
		return resp, false
	}
	resp.CanSave = CanSave(c, *out)
	return resp, true
}

// Save validates, computes and persists the result for the signed-in user.
func (rn *Runner) Save(w http.ResponseWriter, r *http.Request) {
	c, req, ok := rn.decode(w, r)
	if !ok {
		return
	}
	rn.Metrics.Count(c.Name(), metrics.ActionSave)
	tr := rn.Bundle.ForRequest(r)
	resp, ok := rn.compute(c, tr, req)
	if !ok {
		feedback.WriteJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	if !resp.CanSave {
		n := feedback.New(tr, feedback.Info, i18n.ModalSaveFailTitle, i18n.CalcNothingToSave, nil)
		resp.Notice = &n
		feedback.WriteJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	entry, err := rn.Saver.Save(r.Context(), Entry(c, tr, *resp.Result))
	if err != nil {
		kind := history.Kind(err)
		rn.Metrics.SaveFailed(kind)
		rn.Log.Warn("save failed", zap.String("type", c.Name()), zap.String("kind", kind), zap.Error(err))
		n := feedback.New(tr, feedback.Error, i18n.ModalSaveFailTitle, i18n.ModalSaveFailMsg,
			i18n.Params{"error": history.Reason(err, tr, i18n.CommonSaveFailed)})
		resp.Notice = &n
		status := http.StatusInternalServerError
		if errors.Is(err, history.ErrNotSignedIn) {
			status = http.StatusUnauthorized
		}
		feedback.WriteJSON(w, status, resp)
		return
	}
	n := feedback.New(tr, feedback.Success, i18n.ModalSaveSuccessTitle, i18n.ModalSaveSuccessMsg, nil)
	resp.Notice = &n
	resp.Entry = &entry
	feedback.WriteJSON(w, http.StatusCreated, resp)
}

// Catalog lists registered calculators with their field order.
func (rn *Runner) Catalog(w http.ResponseWriter, r *http.Request) {
	type item struct {
		Type     string            `json:"type"`
		Label    string            `json:"label"`
		Fields   []string          `json:"fields"`
		Defaults map[string]string `json:"defaults,omitempty"`
	}
	tr := rn.Bundle.ForRequest(r)
	var out []item
	for _, name := range rn.Registry.Names() {
		c, _ := rn.Registry.Lookup(name)
		it := item{Type: name, Label: c.Label(tr), Fields: form.Names(c.Fields(tr))}
		if d, ok := c.(Defaulter); ok {
			it.Defaults = d.Defaults()
		}
		out = append(out, it)
	}
	feedback.WriteJSON(w, http.StatusOK, out)
}
