package flow

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ISQM/internal/metrics"
)

func testCount(m *metrics.Metrics, calcType, action string) float64 {
	return testutil.ToFloat64(m.Calculations.WithLabelValues(calcType, action))
}

func testFailures(m *metrics.Metrics, kind string) float64 {
	return testutil.ToFloat64(m.SaveFailures.WithLabelValues(kind))
}
