package rebar

import (
	"math"

	"ISQM/internal/calc/num"
)

type Input struct {
	Length  float64 `json:"length"`
	Spacing float64 `json:"spacing"`
}

type Result struct {
	Raw         float64 `json:"raw_qty"`
	Recommended float64 `json:"recommended_qty"`
}

// Quantity follows site practice: round the bar count up and add one starter
// bar. Column links and slab bars use the plain theoretical count instead.
func Quantity(in Input) Result {
	length := num.ToNumber(in.Length)
	spacing := num.ToNumber(in.Spacing)
	if spacing <= 0 {
		return Result{}
	}
	raw := length / spacing
	return Result{Raw: raw, Recommended: math.Ceil(raw) + 1}
}
