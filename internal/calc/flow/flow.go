// Package flow connects calculator forms to the QM engines and to history.
package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

// Outcome is what an engine produced for one set of form values.
type Outcome struct {
	Inputs  map[string]float64 `json:"inputs"`
	Outputs map[string]float64 `json:"outputs,omitempty"`
	Result  float64            `json:"result"`
	Unit    string             `json:"unit"`
	Payload any                `json:"payload,omitempty"`
}

// Calculator binds one element's form to its engine.
type Calculator interface {
	// Name is the route segment, e.g. "soffit".
	Name() string
	// Type is the history type the result is saved under.
	Type() history.Type
	Label(tr i18n.Translator) string
	Fields(tr i18n.Translator) []form.Field
	Compute(values map[string]string) Outcome
}

// SaveGate is implemented by calculators that refuse to save some results.
type SaveGate interface {
	CanSave(o Outcome) bool
}

// Defaulter supplies values for fields the client left out entirely.
type Defaulter interface {
	Defaults() map[string]string
}

// CanSave reports whether o may be persisted by c.
func CanSave(c Calculator, o Outcome) bool {
	if g, ok := c.(SaveGate); ok {
		return g.CanSave(o)
	}
	return true
}

// WithDefaults returns values with c's defaults filled in for missing keys.
func WithDefaults(c Calculator, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	if d, ok := c.(Defaulter); ok {
		for k, v := range d.Defaults() {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}
	return out
}

// Run validates values and computes the outcome when every field passes.
// The returned outcome is nil while the report has errors, and also when the
// inputs are valid but the engine overflowed; OutOfRange tells the two apart.
func Run(c Calculator, tr i18n.Translator, values map[string]string, in form.Interaction) (form.Report, *Outcome) {
	values = WithDefaults(c, values)
	rep := form.Evaluate(c.Fields(tr), values, in)
	if rep.HasErrors {
		return rep, nil
	}
	out := c.Compute(values)
	if !Finite(out) {
		return rep, nil
	}
	return rep, &out
}

// OutOfRange reports a Run that passed validation but produced no outcome.
func OutOfRange(rep form.Report, out *Outcome) bool {
	return out == nil && !rep.HasErrors
}

// Finite reports whether every number in o, payload included, can be
// stored and sent as JSON.
func Finite(o Outcome) bool {
	if !finite(o.Result) {
		return false
	}
	for _, m := range []map[string]float64{o.Inputs, o.Outputs} {
		for _, v := range m {
			if !finite(v) {
				return false
			}
		}
	}
	if o.Payload != nil {
		if _, err := json.Marshal(o.Payload); err != nil {
			return false
		}
	}
	return true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Entry turns an outcome into a history record for c.
func Entry(c Calculator, tr i18n.Translator, o Outcome) history.NewEntry {
	return history.NewEntry{
		Type:    c.Type(),
		Label:   c.Label(tr),
		Inputs:  o.Inputs,
		Outputs: o.Outputs,
		Result:  o.Result,
		Unit:    o.Unit,
	}
}

type Registry struct {
	byName map[string]Calculator
}

func NewRegistry(calcs ...Calculator) *Registry {
	r := &Registry{byName: make(map[string]Calculator, len(calcs))}
	for _, c := range calcs {
		r.byName[c.Name()] = c
	}
	return r
}

func (r *Registry) Lookup(name string) (Calculator, bool) {
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Values is raw form text keyed by field name. JSON numbers, strings and
// null are all accepted and kept as text.
type Values map[string]string

func (v *Values) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Values, len(raw))
	for k, msg := range raw {
		msg = bytes.TrimSpace(msg)
		switch {
		case bytes.Equal(msg, []byte("null")):
			out[k] = ""
		case len(msg) > 0 && msg[0] == '"':
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return err
			}
			out[k] = s
		default:
			var n json.Number
			if err := json.Unmarshal(msg, &n); err != nil {
				return fmt.Errorf("field %s: %w", k, err)
			}
			out[k] = n.String()
		}
	}
	*v = out
	return nil
}

// Text formats a number the way a user would type it.
func Text(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
