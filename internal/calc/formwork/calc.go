package formwork

import "ISQM/internal/calc/num"

type Input struct {
	Length float64 `json:"length"`
	Height float64 `json:"height"`
	Sides  float64 `json:"sides"`
}

type Result struct {
	AreaM2 float64 `json:"formwork_m2"`
}

// Area is the shuttering for the given number of faces, l*h*sides.
func Area(in Input) Result {
	return Result{AreaM2: num.ToNumber(in.Length) * num.ToNumber(in.Height) * num.ToNumber(in.Sides)}
}
