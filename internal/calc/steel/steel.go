package steel

import "ISQM/internal/calc/num"

// UnitWeightDivisor gives kg per metre of bar as d²/162 with d in mm.
const UnitWeightDivisor = 162

func BarWeightKg(diameterMm, lengthM, quantity float64) float64 {
	d := num.ToNumber(diameterMm)
	return (d * d / UnitWeightDivisor) * num.ToNumber(lengthM) * num.ToNumber(quantity)
}
