package batch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ISQM/internal/calc/beam"
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/rebar"
	"ISQM/internal/i18n"
	"ISQM/internal/metrics"
)

var (
	bundle = i18n.MustLoad(i18n.LangMS)
	en     = bundle.For(i18n.LangEN)
	reg    = flow.NewRegistry(beam.Calculator{}, rebar.Calculator{})
)

func TestCalculateKeepsOrder(t *testing.T) {
	res, err := Calculate(reg, en, Input{Items: []Item{
		{Type: "rebar", Values: flow.Values{"length": "10", "spacing": "1.5"}},
		{Type: "beam", Values: flow.Values{"b": "0"}},
		{Type: "piles", Values: flow.Values{}},
		{Type: "rebar", Values: flow.Values{"length": "0", "spacing": "1"}},
	}})
	require.NoError(t, err)
	require.Equal(t, 4, res.Count)
	assert.Equal(t, 2, res.Failed)

	assert.Equal(t, 8.0, res.Results[0].Result.Result)
	assert.True(t, res.Results[0].CanSave)

	assert.Nil(t, res.Results[1].Result)
	assert.Equal(t, "Enter a number greater than 0.", res.Results[1].Errors["b"])
	assert.Equal(t, "This field is required.", res.Results[1].Errors["h"])

	assert.Equal(t, "Unknown calculator.", res.Results[2].Errors["type"])

	assert.Equal(t, 3, res.Results[3].Index)
	assert.False(t, res.Results[3].CanSave)
}

func TestCalculateOverflow(t *testing.T) {
	res, err := Calculate(reg, en, Input{Items: []Item{
		{Type: "beam", Values: flow.Values{"b": "1e200", "h": "1e200", "L": "1e200", "barDiameter": "12", "barLength": "4", "barQty": "10"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Nil(t, res.Results[0].Result)
	assert.Equal(t, "These values are too large to calculate. Check the units you entered.", res.Results[0].Errors["values"])
}

func TestCalculateEmpty(t *testing.T) {
	_, err := Calculate(reg, en, Input{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Calculate(reg, en, Input{Items: make([]Item, MaxItems+1)})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestHandler(t *testing.T) {
	h := &Handler{Registry: reg, Bundle: bundle, Metrics: metrics.New()}

	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/batch?lang=en",
		strings.NewReader(`{"items":[{"type":"rebar","values":{"length":10,"spacing":2}}]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommended_qty":6`)

	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/batch?lang=en", strings.NewReader(`{"items":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Add at least one item")
}

func TestHandlerBoundsMetricLabels(t *testing.T) {
	m := metrics.New()
	h := &Handler{Registry: reg, Bundle: bundle, Metrics: m}

	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/batch?lang=en",
		strings.NewReader(`{"items":[{"type":"rebar","values":{"length":10,"spacing":2}},{"type":"x1"},{"type":"x2"}]}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues("rebar", metrics.ActionBatch)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("unknown", metrics.ActionBatch)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Calculations))
}
