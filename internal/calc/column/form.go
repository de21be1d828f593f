package column

import (
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

type Calculator struct{}

func (Calculator) Name() string                 { return "column" }
func (Calculator) Type() history.Type           { return history.TypeColumn }
func (Calculator) Label(i18n.Translator) string { return "Column QM" }

func (Calculator) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "b", Validator: form.Positive(tr)},
		{Name: "l", Validator: form.Positive(tr)},
		{Name: "H", Validator: form.Positive(tr)},
		{Name: "mainDiameter", Validator: form.Positive(tr)},
		{Name: "mainLength", Validator: form.Positive(tr)},
		{Name: "mainQty", Validator: form.NonNegativeInt(tr)},
		{Name: "linkDiameter", Validator: form.Positive(tr)},
		{Name: "spacing", Validator: form.Positive(tr)},
		{Name: "allowance", Validator: form.NonNegative(tr)},
	}
}

func (Calculator) Compute(v map[string]string) flow.Outcome {
	in := Input{
		B:                 num.Parse(v["b"]),
		L:                 num.Parse(v["l"]),
		H:                 num.Parse(v["H"]),
		MainBarDiameterMm: num.Parse(v["mainDiameter"]),
		MainBarLengthM:    num.Parse(v["mainLength"]),
		MainBarQuantity:   num.Parse(v["mainQty"]),
		LinkBarDiameterMm: num.Parse(v["linkDiameter"]),
		SpacingMm:         num.Parse(v["spacing"]),
		AllowanceMm:       num.Parse(v["allowance"]),
	}
	res := CalcQM(in)
	return flow.Outcome{
		Inputs: map[string]float64{
			"b_m":           in.B,
			"l_m":           in.L,
			"H_m":           in.H,
			"main_d_mm":     in.MainBarDiameterMm,
			"main_length_m": in.MainBarLengthM,
			"main_qty":      in.MainBarQuantity,
			"link_d_mm":     in.LinkBarDiameterMm,
			"spacing_mm":    in.SpacingMm,
			"allowance_mm":  in.AllowanceMm,
		},
		Outputs: map[string]float64{
			"concrete_m3":    res.ConcreteM3,
			"formwork_m2":    res.FormworkM2,
			"steel_main_kg":  res.SteelMainKg,
			"steel_links_kg": res.SteelLinksKg,
			"steel_total_kg": res.SteelTotalKg,
			"links_qty":      res.LinksQty,
		},
		Result:  res.SteelTotalKg,
		Unit:    "kg",
		Payload: res,
	}
}
