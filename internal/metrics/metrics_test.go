package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(PaymentsProcessed.WithLabelValues("CARD", "completed"))
	PaymentsProcessed.WithLabelValues("CARD", "completed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PaymentsProcessed.WithLabelValues("CARD", "completed")))
}
