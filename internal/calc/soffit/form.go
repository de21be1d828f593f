package soffit

import (
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

// Calculator saves under the slab history type with an m2 unit.
type Calculator struct{}

func (Calculator) Name() string       { return "soffit" }
func (Calculator) Type() history.Type { return history.TypeSlab }

func (Calculator) Label(tr i18n.Translator) string { return tr.T(i18n.CalcSoffitLabel, nil) }

func (Calculator) Defaults() map[string]string {
	return map[string]string{"sides": "1", "edges": "1"}
}

func (Calculator) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "length", Validator: form.Positive(tr)},
		{Name: "width", Validator: form.Positive(tr)},
		{Name: "thickness", Validator: form.Positive(tr)},
		{Name: "sides", Validator: form.PositiveInt(tr)},
		{Name: "edges", Validator: form.PositiveInt(tr)},
	}
}

func (Calculator) Compute(v map[string]string) flow.Outcome {
	in := Input{
		Length:    num.Parse(v["length"]),
		Width:     num.Parse(v["width"]),
		Thickness: num.Parse(v["thickness"]),
		Sides:     num.Parse(v["sides"]),
		Edges:     num.Parse(v["edges"]),
	}
	res := Calc(in)
	return flow.Outcome{
		Inputs: map[string]float64{
			"length":    in.Length,
			"width":     in.Width,
			"thickness": in.Thickness,
			"sides":     in.Sides,
			"edges":     in.Edges,
		},
		Outputs: map[string]float64{"soffit_m2": res.AreaM2},
		Result:  res.AreaM2,
		Unit:    "m2",
		Payload: res,
	}
}
