package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.PredictionsTotal.WithLabelValues("ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.PredictionsTotal.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PredictionsTotal.WithLabelValues("ok")))
}

func TestNew_Gathers(t *testing.T) {
	m := New()
	m.LastPrediction.Set(42)
	m.RefreshTotal.WithLabelValues("success").Inc()

	families, err := m.Registry.Gather()
	assert.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["stockpredictor_last_prediction"])
	assert.True(t, names["stockpredictor_data_refresh_total"])
}
