package flow

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"
)

var en = i18n.MustLoad(i18n.LangMS).For(i18n.LangEN)

// area is a two-field calculator used to drive the pipeline.
type area struct{ gate bool }

func (area) Name() string                    { return "area" }
func (area) Type() history.Type              { return history.TypeFormwork }
func (area) Label(tr i18n.Translator) string { return "Area" }
func (area) Defaults() map[string]string     { return map[string]string{"h": "1"} }

func (area) Fields(tr i18n.Translator) []form.Field {
	return []form.Field{
		{Name: "w", Validator: form.Positive(tr)},
		{Name: "h", Validator: form.Positive(tr)},
	}
}

func (area) Compute(v map[string]string) Outcome {
	w, h := num.Parse(v["w"]), num.Parse(v["h"])
	return Outcome{Inputs: map[string]float64{"w": w, "h": h}, Result: w * h, Unit: "m2"}
}

func (a area) CanSave(o Outcome) bool { return !a.gate || o.Result > 10 }

func TestRunAppliesDefaults(t *testing.T) {
	rep, out := Run(area{}, en, map[string]string{"w": "3"}, form.Interaction{})
	require.False(t, rep.HasErrors)
	require.NotNil(t, out)
	assert.Equal(t, 3.0, out.Result)

	_, out = Run(area{}, en, map[string]string{"w": "3", "h": "2"}, form.Interaction{})
	require.NotNil(t, out)
	assert.Equal(t, 6.0, out.Result)
}

func TestRunStopsOnErrors(t *testing.T) {
	rep, out := Run(area{}, en, map[string]string{"w": "", "h": "2"}, form.Interaction{})
	assert.True(t, rep.HasErrors)
	assert.Nil(t, out)
	assert.False(t, rep.Fields["w"].ShowError, "nothing shows before touch or submit")
}

func TestRunRejectsOverflow(t *testing.T) {
	rep, out := Run(area{}, en, map[string]string{"w": "1e200", "h": "1e200"}, form.Interaction{})
	assert.False(t, rep.HasErrors)
	assert.Nil(t, out)
	assert.True(t, OutOfRange(rep, out))

	rep, out = Run(area{}, en, map[string]string{"w": ""}, form.Interaction{})
	assert.False(t, OutOfRange(rep, out))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(Outcome{Result: 1, Outputs: map[string]float64{"a": 2}}))
	assert.False(t, Finite(Outcome{Outputs: map[string]float64{"a": math.Inf(1)}}))
	assert.False(t, Finite(Outcome{Result: math.NaN()}))
	assert.False(t, Finite(Outcome{Payload: []float64{math.Inf(-1)}}))
}

func TestCanSave(t *testing.T) {
	assert.True(t, CanSave(area{}, Outcome{Result: 1}))
	assert.False(t, CanSave(area{gate: true}, Outcome{Result: 1}))
}

func TestEntry(t *testing.T) {
	e := Entry(area{}, en, Outcome{Inputs: map[string]float64{"w": 2}, Result: 2, Unit: "m2"})
	assert.Equal(t, history.TypeFormwork, e.Type)
	assert.Equal(t, "Area", e.Label)
	assert.Equal(t, 2.0, e.Result)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(area{})
	c, ok := r.Lookup("area")
	require.True(t, ok)
	assert.Equal(t, "area", c.Name())
	_, ok = r.Lookup("piles")
	assert.False(t, ok)
	assert.Equal(t, []string{"area"}, r.Names())
}

func TestValuesAcceptNumbersAndNull(t *testing.T) {
	var v Values
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1.5","b":2,"c":null,"d":1e3}`), &v))
	assert.Equal(t, Values{"a": "1.5", "b": "2", "c": "", "d": "1e3"}, v)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestText(t *testing.T) {
	assert.Equal(t, "0.25", Text(0.25))
	assert.Equal(t, "12", Text(12))
}
