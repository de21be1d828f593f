package column

import (
	"ISQM/internal/calc/num"
	"ISQM/internal/calc/steel"
)

type Input struct {
	B                 float64 `json:"b_m"`
	L                 float64 `json:"l_m"`
	H                 float64 `json:"H_m"`
	MainBarDiameterMm float64 `json:"main_d_mm"`
	MainBarLengthM    float64 `json:"main_length_m"`
	MainBarQuantity   float64 `json:"main_qty"`
	LinkBarDiameterMm float64 `json:"link_d_mm"`
	SpacingMm         float64 `json:"spacing_mm"`
	AllowanceMm       float64 `json:"allowance_mm"`
}

type Result struct {
	ConcreteM3   float64 `json:"concrete_m3"`
	FormworkM2   float64 `json:"formwork_m2"`
	SteelMainKg  float64 `json:"steel_main_kg"`
	SteelLinksKg float64 `json:"steel_links_kg"`
	SteelTotalKg float64 `json:"steel_total_kg"`
	LinksQty     float64 `json:"links_qty"`
	LinkLengthM  float64 `json:"link_length_m"`
}

// CalcQM derives column quantities. The link count is the theoretical H/s,
// without rounding up or a starter bar.
func CalcQM(in Input) Result {
	b := num.ToNumber(in.B)
	l := num.ToNumber(in.L)
	H := num.ToNumber(in.H)

	mainKg := steel.BarWeightKg(in.MainBarDiameterMm, in.MainBarLengthM, in.MainBarQuantity)

	spacing := num.MmToM(in.SpacingMm)
	allowance := num.MmToM(in.AllowanceMm)
	linkLength := (2 * (b + l)) + allowance
	links := 0.0
	if spacing > 0 {
		links = H / spacing
	}
	linksKg := steel.BarWeightKg(in.LinkBarDiameterMm, linkLength, links)

	return Result{
		ConcreteM3:   b * l * H,
		FormworkM2:   2 * (b + l) * H,
		SteelMainKg:  mainKg,
		SteelLinksKg: linksKg,
		SteelTotalKg: mainKg + linksKg,
		LinksQty:     links,
		LinkLengthM:  linkLength,
	}
}
