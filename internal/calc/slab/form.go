package slab

import (
	"strings"

	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

type Calculator struct{}

func (Calculator) Name() string                 { return "slab" }
func (Calculator) Type() history.Type           { return history.TypeSlab }
func (Calculator) Label(i18n.Translator) string { return "Slab QM" }

func (Calculator) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "length", Validator: form.Positive(tr)},
		{Name: "width", Validator: form.Positive(tr)},
		{Name: "thickness", Validator: form.Positive(tr)},
		{Name: "barDiameter", Validator: form.Positive(tr)},
		{Name: "spacing", Validator: form.Positive(tr)},
		{Name: "barLength", Validator: form.OptionalPositive(tr)},
	}
}

// Compute uses the slab length as the bar length when none is given.
func (Calculator) Compute(v map[string]string) flow.Outcome {
	in := Input{
		Length:        num.Parse(v["length"]),
		Width:         num.Parse(v["width"]),
		Thickness:     num.Parse(v["thickness"]),
		BarDiameterMm: num.Parse(v["barDiameter"]),
		SpacingMm:     num.Parse(v["spacing"]),
	}
	in.BarLengthM = in.Length
	if strings.TrimSpace(v["barLength"]) != "" {
		in.BarLengthM = num.Parse(v["barLength"])
	}
	res := CalcQM(in)
	return flow.Outcome{
		Inputs: map[string]float64{
			"length_m":     in.Length,
			"width_m":      in.Width,
			"thickness_m":  in.Thickness,
			"bar_d_mm":     in.BarDiameterMm,
			"spacing_mm":   in.SpacingMm,
			"bar_length_m": in.BarLengthM,
		},
		Outputs: map[string]float64{
			"concrete_m3": res.ConcreteM3,
			"formwork_m2": res.FormworkM2,
			"steel_kg":    res.SteelKg,
			"bars_qty":    res.BarsQty,
		},
		Result:  res.SteelKg,
		Unit:    "kg",
		Payload: res,
	}
}
