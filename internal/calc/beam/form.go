package beam

import (
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

// Calculator is the beam QM form.
type Calculator struct{}

func (Calculator) Name() string                 { return "beam" }
func (Calculator) Type() history.Type           { return history.TypeBeam }
func (Calculator) Label(i18n.Translator) string { return "Beam QM" }

func (Calculator) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "b", Validator: form.Positive(tr)},
		{Name: "h", Validator: form.Positive(tr)},
		{Name: "L", Validator: form.Positive(tr)},
		{Name: "barDiameter", Validator: form.Positive(tr)},
		{Name: "barLength", Validator: form.Positive(tr)},
		{Name: "barQty", Validator: form.NonNegativeInt(tr)},
	}
}

func (Calculator) Compute(v map[string]string) flow.Outcome {
	in := Input{
		B:             num.Parse(v["b"]),
		H:             num.Parse(v["h"]),
		L:             num.Parse(v["L"]),
		BarDiameterMm: num.Parse(v["barDiameter"]),
		BarLengthM:    num.Parse(v["barLength"]),
		BarQuantity:   num.Parse(v["barQty"]),
	}
	res := CalcQM(in)
	return flow.Outcome{
		Inputs: map[string]float64{
			"b_m":          in.B,
			"h_m":          in.H,
			"L_m":          in.L,
			"bar_d_mm":     in.BarDiameterMm,
			"bar_length_m": in.BarLengthM,
			"bar_qty":      in.BarQuantity,
		},
		Outputs: map[string]float64{
			"concrete_m3": res.ConcreteM3,
			"formwork_m2": res.FormworkM2,
			"steel_kg":    res.SteelKg,
		},
		Result:  res.SteelKg,
		Unit:    "kg",
		Payload: res,
	}
}
