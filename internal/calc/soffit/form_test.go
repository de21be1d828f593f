package soffit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ISQM/internal/calc/flow"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

var en = i18n.MustLoad(i18n.LangMS).For(i18n.LangEN)

func TestCalculatorDefaultsSidesAndEdges(t *testing.T) {
	values := map[string]string{"length": "4", "width": "3", "thickness": "0.2"}
	rep, out := flow.Run(Calculator{}, en, values, form.Interaction{})
	require.False(t, rep.HasErrors)
	require.NotNil(t, out)

	p, l, th := 4.0, 3.0, 0.2
	assert.Equal(t, p*l+p*th*1+l*th*1, out.Result)
	assert.Equal(t, "m2", out.Unit)
	assert.Equal(t, 1.0, out.Inputs["sides"])
	assert.Equal(t, out.Result, out.Outputs["soffit_m2"])
}

func TestCalculatorSidesMustBeWhole(t *testing.T) {
	values := map[string]string{"length": "4", "width": "3", "thickness": "0.2", "sides": "0", "edges": "1.5"}
	rep, out := flow.Run(Calculator{}, en, values, form.Interaction{})
	assert.Nil(t, out)
	assert.Equal(t, "Enter a whole number of at least 1.", rep.Errors()["sides"])
	assert.Equal(t, "Enter a whole number.", rep.Errors()["edges"])
}

func TestCalculatorSavesAsSlab(t *testing.T) {
	c := Calculator{}
	assert.Equal(t, history.TypeSlab, c.Type())
	assert.Equal(t, "soffit", c.Name())
	assert.Equal(t, "Soffit Formwork", c.Label(en))
}
