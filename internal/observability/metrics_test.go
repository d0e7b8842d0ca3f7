package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordUptimeTick(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.UptimeSeconds)

	RecordUptimeTick(15)
	RecordUptimeTick(15)

	assert.Equal(t, before+30, testutil.ToFloat64(DefaultMetrics.UptimeSeconds))
}

func TestRecordClaimUpdatesHealthGauge(t *testing.T) {
	RecordClaim(250, 1754006400)

	assert.Equal(t, 1754006400.0, testutil.ToFloat64(DefaultMetrics.LastSuccessfulClaim))
}
