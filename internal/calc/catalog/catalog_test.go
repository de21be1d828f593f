package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"beam", "column", "concrete", "formwork", "rebar", "slab", "soffit"}, Registry().Names())
}
