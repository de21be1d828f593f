package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ISQM/internal/calc/column"
	"ISQM/internal/calc/flow"
	"ISQM/internal/i18n"
	"ISQM/internal/metrics"
)

var bundle = i18n.MustLoad(i18n.LangMS)

func columnValues() flow.Values {
	return flow.Values{
		"b": "0.3", "l": "0.3", "H": "3",
		"mainDiameter": "16", "mainLength": "3.5", "mainQty": "4",
		"linkDiameter": "8", "spacing": "150", "allowance": "100",
	}
}

func TestBuild(t *testing.T) {
	tr := bundle.For(i18n.LangEN)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sheet, _, ok := Build(column.Calculator{}, tr, Input{Project: "Block A", Values: columnValues()}, now)
	require.True(t, ok)
	assert.Equal(t, "Quantity Measurement Sheet", sheet.Title)
	assert.Equal(t, "Column QM", sheet.Label)
	assert.Equal(t, "kg", sheet.Outcome.Unit)
	assert.Equal(t, now, sheet.Date)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sheet, tr))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestBuildInvalid(t *testing.T) {
	vals := columnValues()
	vals["spacing"] = "0"
	_, rep, ok := Build(column.Calculator{}, bundle.For(i18n.LangEN), Input{Values: vals}, time.Now())
	assert.False(t, ok)
	assert.True(t, rep.Fields["spacing"].ShowError)
}

func TestHandler(t *testing.T) {
	h := &Handler{
		Registry: flow.NewRegistry(column.Calculator{}),
		Bundle:   bundle,
		Log:      zap.NewNop(),
		Metrics:  metrics.New(),
	}

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf",
		strings.NewReader(`{"type":"column","title":"Tiang C1","values":{"b":0.3,"l":0.3,"H":3,"mainDiameter":16,"mainLength":3.5,"mainQty":4,"linkDiameter":8,"spacing":150,"allowance":100}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf",
		strings.NewReader(`{"type":"column","values":{"b":0.3}}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf",
		strings.NewReader(`{"type":"piles"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
