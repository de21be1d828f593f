package beam

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"ISQM/internal/calc/num"
)

func TestCalcQM(t *testing.T) {
	res := CalcQM(Input{B: 0.3, H: 0.5, L: 4, BarDiameterMm: 12, BarLengthM: 4, BarQuantity: 10})

	b, h, L := 0.3, 0.5, 4.0
	assert.Equal(t, b*h*L, res.ConcreteM3)
	assert.Equal(t, (2*h*L)+(b*L), res.FormworkM2)
	assert.InDelta(t, 35.556, res.SteelKg, 1e-3)
}

func TestCalcQMConcreteExact(t *testing.T) {
	for _, dims := range [][3]float64{{0, 0, 0}, {0.25, 0.6, 7.3}, {1.1, 2.2, 3.3}, {1e-3, 1e3, 12}} {
		res := CalcQM(Input{B: dims[0], H: dims[1], L: dims[2]})
		assert.Equal(t, dims[0]*dims[1]*dims[2], res.ConcreteM3)
	}
}

func TestCalcQMIdempotent(t *testing.T) {
	in := Input{B: 0.23, H: 0.45, L: 5.1, BarDiameterMm: 16, BarLengthM: 5.4, BarQuantity: 4}
	assert.Equal(t, CalcQM(in), CalcQM(in))
}

func TestCalcQMNonFinite(t *testing.T) {
	res := CalcQM(Input{B: math.NaN(), H: math.Inf(1), L: 4, BarDiameterMm: math.NaN(), BarLengthM: 4, BarQuantity: 2})
	assert.Equal(t, Result{}, res)
}

func TestCalcQMGarbageEqualsZero(t *testing.T) {
	garbage := CalcQM(Input{B: num.Parse("abc"), H: 0.5, L: 4, BarDiameterMm: 12, BarLengthM: num.Parse("x"), BarQuantity: 10})
	zero := CalcQM(Input{B: num.Parse("0"), H: 0.5, L: 4, BarDiameterMm: 12, BarLengthM: num.Parse("0"), BarQuantity: 10})
	assert.Equal(t, zero, garbage)
}

func TestCalcQMNegativePropagates(t *testing.T) {
	res := CalcQM(Input{B: -0.3, H: 0.5, L: 4})
	assert.Less(t, res.ConcreteM3, 0.0)
}
