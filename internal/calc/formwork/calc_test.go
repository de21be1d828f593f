package formwork

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArea(t *testing.T) {
	assert.Equal(t, 24.0, Area(Input{Length: 4, Height: 2, Sides: 3}).AreaM2)
	assert.Equal(t, 0.0, Area(Input{Length: 4, Height: 2}).AreaM2)
}
