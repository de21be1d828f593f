package formwork

import (
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

type Calculator struct{}

func (Calculator) Name() string                 { return "formwork" }
func (Calculator) Type() history.Type           { return history.TypeFormwork }
func (Calculator) Label(i18n.Translator) string { return "Formwork Shuttering" }

func (Calculator) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "length", Validator: form.NonNegative(tr)},
		{Name: "height", Validator: form.NonNegative(tr)},
		{Name: "sides", Validator: form.NonNegative(tr)},
	}
}

func (Calculator) Compute(v map[string]string) flow.Outcome {
	in := Input{Length: num.Parse(v["length"]), Height: num.Parse(v["height"]), Sides: num.Parse(v["sides"])}
	res := Area(in)
	return flow.Outcome{
		Inputs:  map[string]float64{"length": in.Length, "height": in.Height, "sides": in.Sides},
		Result:  res.AreaM2,
		Unit:    "m²",
		Payload: res,
	}
}

func (Calculator) CanSave(o flow.Outcome) bool { return o.Result > 0 }
