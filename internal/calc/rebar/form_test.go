package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ISQM/internal/calc/flow"
	"ISQM/internal/form"
	"ISQM/internal/i18n"
)

var en = i18n.MustLoad(i18n.LangMS).For(i18n.LangEN)

func TestCalculatorCompute(t *testing.T) {
	rep, out := flow.Run(Calculator{}, en, map[string]string{"length": "10", "spacing": "1.5"}, form.Interaction{})
	require.False(t, rep.HasErrors)
	require.NotNil(t, out)
	assert.Equal(t, 8.0, out.Result)
	assert.InDelta(t, 6.667, out.Outputs["raw_qty"], 1e-3)
	assert.Equal(t, "pcs", out.Unit)
	assert.True(t, flow.CanSave(Calculator{}, *out))
}

func TestCalculatorSaveGate(t *testing.T) {
	_, out := flow.Run(Calculator{}, en, map[string]string{"length": "0", "spacing": "1.5"}, form.Interaction{})
	require.NotNil(t, out)
	assert.Equal(t, 1.0, out.Result)
	assert.False(t, flow.CanSave(Calculator{}, *out))

	_, out = flow.Run(Calculator{}, en, map[string]string{"length": "10", "spacing": "0"}, form.Interaction{})
	require.NotNil(t, out)
	assert.Equal(t, 0.0, out.Result)
	assert.False(t, flow.CanSave(Calculator{}, *out))
}
