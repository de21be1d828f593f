package slab

import (
	"ISQM/internal/calc/num"
	"ISQM/internal/calc/steel"
)

type Input struct {
	Length        float64 `json:"length_m"`
	Width         float64 `json:"width_m"`
	Thickness     float64 `json:"thickness_m"`
	BarDiameterMm float64 `json:"bar_d_mm"`
	SpacingMm     float64 `json:"spacing_mm"`
	BarLengthM    float64 `json:"bar_length_m"`
}

type Result struct {
	ConcreteM3 float64 `json:"concrete_m3"`
	FormworkM2 float64 `json:"formwork_m2"`
	SteelKg    float64 `json:"steel_kg"`
	BarsQty    float64 `json:"bars_qty"`
}

func CalcQM(in Input) Result {
	length := num.ToNumber(in.Length)
	width := num.ToNumber(in.Width)
	thickness := num.ToNumber(in.Thickness)

	spacing := num.MmToM(in.SpacingMm)
	bars := 0.0
	if spacing > 0 {
		bars = width / spacing
	}
	return Result{
		ConcreteM3: length * width * thickness,
		FormworkM2: length * width,
		SteelKg:    steel.BarWeightKg(in.BarDiameterMm, in.BarLengthM, bars),
		BarsQty:    bars,
	}
}
