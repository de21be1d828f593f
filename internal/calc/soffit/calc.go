package soffit

import "ISQM/internal/calc/num"

type Input struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Sides     float64 `json:"sides"`
	Edges     float64 `json:"edges"`
}

type Result struct {
	AreaM2 float64 `json:"soffit_m2"`
}

// Calc returns the soffit area plus the thickness strips along the long
// sides and the edges: p*l + p*t*sides + l*t*edges.
func Calc(in Input) Result {
	p := num.ToNumber(in.Length)
	l := num.ToNumber(in.Width)
	t := num.ToNumber(in.Thickness)
	s := num.ToNumber(in.Sides)
	e := num.ToNumber(in.Edges)
	return Result{AreaM2: (p * l) + (p * t * s) + (l * t * e)}
}
