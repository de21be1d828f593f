package rebar

import (
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

type Calculator struct{}

func (Calculator) Name() string                 { return "rebar" }
func (Calculator) Type() history.Type           { return history.TypeRebar }
func (Calculator) Label(i18n.Translator) string { return "Reinforcement Bars" }

func (Calculator) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "length", Validator: form.NonNegative(tr)},
		{Name: "spacing", Validator: form.NonNegative(tr)},
	}
}

func (Calculator) Compute(v map[string]string) flow.Outcome {
	in := Input{Length: num.Parse(v["length"]), Spacing: num.Parse(v["spacing"])}
	res := Quantity(in)
	return flow.Outcome{
		Inputs:  map[string]float64{"length": in.Length, "spacing": in.Spacing},
		Outputs: map[string]float64{"raw_qty": res.Raw, "recommended_qty": res.Recommended},
		Result:  res.Recommended,
		Unit:    "pcs",
		Payload: res,
	}
}

// CanSave needs a positive theoretical count; the recommended count alone
// is 1 even for a zero length.
func (Calculator) CanSave(o flow.Outcome) bool { return o.Outputs["raw_qty"] > 0 }
