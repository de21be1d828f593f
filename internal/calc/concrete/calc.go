package concrete

import "ISQM/internal/calc/num"

type Input struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Result struct {
	VolumeM3 float64 `json:"concrete_m3"`
}

func Volume(in Input) Result {
	return Result{VolumeM3: num.ToNumber(in.Length) * num.ToNumber(in.Width) * num.ToNumber(in.Height)}
}
