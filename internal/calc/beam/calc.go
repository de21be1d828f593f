package beam

import (
	"ISQM/internal/calc/num"
	"ISQM/internal/calc/steel"
)

type Input struct {
	B             float64 `json:"b_m"`
	H             float64 `json:"h_m"`
	L             float64 `json:"L_m"`
	BarDiameterMm float64 `json:"bar_d_mm"`
	BarLengthM    float64 `json:"bar_length_m"`
	BarQuantity   float64 `json:"bar_qty"`
}

type Result struct {
	ConcreteM3 float64 `json:"concrete_m3"`
	FormworkM2 float64 `json:"formwork_m2"`
	SteelKg    float64 `json:"steel_kg"`
}

// CalcQM derives beam quantities. Formwork covers two sides and the soffit.
func CalcQM(in Input) Result {
	b := num.ToNumber(in.B)
	h := num.ToNumber(in.H)
	L := num.ToNumber(in.L)
	return Result{
		ConcreteM3: b * h * L,
		FormworkM2: (2 * h * L) + (b * L),
		SteelKg:    steel.BarWeightKg(in.BarDiameterMm, in.BarLengthM, in.BarQuantity),
	}
}
