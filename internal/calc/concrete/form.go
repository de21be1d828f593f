package concrete

import (
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

type Calculator struct{}

func (Calculator) Name() string                 { return "concrete" }
func (Calculator) Type() history.Type           { return history.TypeConcrete }
func (Calculator) Label(i18n.Translator) string { return "Concrete Slab/Beam" }

func (Calculator) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "length", Validator: form.NonNegative(tr)},
		{Name: "width", Validator: form.NonNegative(tr)},
		{Name: "height", Validator: form.NonNegative(tr)},
	}
}

func (Calculator) Compute(v map[string]string) flow.Outcome {
	in := Input{Length: num.Parse(v["length"]), Width: num.Parse(v["width"]), Height: num.Parse(v["height"])}
	res := Volume(in)
	return flow.Outcome{
		Inputs:  map[string]float64{"length": in.Length, "width": in.Width, "height": in.Height},
		Result:  res.VolumeM3,
		Unit:    "m³",
		Payload: res,
	}
}

// CanSave rejects empty volumes.
func (Calculator) CanSave(o flow.Outcome) bool { return o.Result > 0 }
