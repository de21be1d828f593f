package concrete

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolume(t *testing.T) {
	l, w, h := 4.0, 3.0, 0.2
	assert.Equal(t, l*w*h, Volume(Input{Length: l, Width: w, Height: h}).VolumeM3)
	assert.Equal(t, 0.0, Volume(Input{Length: math.NaN(), Width: 3, Height: 2}).VolumeM3)
}
