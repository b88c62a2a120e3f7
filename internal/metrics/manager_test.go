package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestManager_ObserveEstimate(t *testing.T) {
	m := NewTestManager()
	m.ObserveEstimate(SourceModel)
	m.ObserveEstimate(SourceFallback)
	m.ObserveEstimate(SourceFallback)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterEstimates.WithLabelValues(SourceModel)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterEstimates.WithLabelValues(SourceFallback)))

	m.SetModelAvailable(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GaugeModelAvailable))
	m.SetModelAvailable(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GaugeModelAvailable))
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.ObserveEstimate(SourceModel)
		m.SetModelAvailable(true)
	})
}
