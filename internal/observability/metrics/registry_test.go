package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("POST", "/api/generate", "200", 150*time.Millisecond, 512)

	counter, err := HTTPRequestsTotal.GetMetricWithLabelValues("POST", "/api/generate", "200")
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, counter.Write(&m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), 1.0)
}

func TestRecordHTTPRequest_ZeroSizeSkipsSizeHistogram(t *testing.T) {
	// Zero request size must not panic and must still count the request.
	RecordHTTPRequest("GET", "/healthz", "200", time.Millisecond, 0)

	counter, err := HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/healthz", "200")
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, counter.Write(&m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), 1.0)
}
