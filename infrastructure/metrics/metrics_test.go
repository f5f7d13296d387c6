package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Resolutions(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	c.ObserveResolution("xrEndFrame", ports.OutcomeLocal)
	c.ObserveResolution("xrPollEvent", ports.OutcomeForwarded)
	c.ObserveResolution("xrPollEvent", ports.OutcomeForwarded)
	c.ObserveResolution("xrBogus", ports.OutcomeFailed)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("local")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.resolutions.WithLabelValues("forwarded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.resolutions.WithLabelValues("no_context")))
}

func TestCollector_Invocations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.ObserveInvocation("xrEndFrame", time.Millisecond, entities.Success)
	c.ObserveInvocation("xrEndFrame", time.Millisecond, entities.ErrorTimeInvalid)
	c.ObserveUpstreamMissing("xrTestMeTEST")

	expected := `
# HELP xrlayer_shim_invocations_total Shim calls by function and result.
# TYPE xrlayer_shim_invocations_total counter
xrlayer_shim_invocations_total{function="xrEndFrame",result="XR_ERROR_TIME_INVALID"} 1
xrlayer_shim_invocations_total{function="xrEndFrame",result="XR_SUCCESS"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "xrlayer_shim_invocations_total"))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamMissing.WithLabelValues("xrTestMeTEST")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration, "xrlayer_shim_duration_seconds"))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
	assert.Panics(t, func() { MustNew(reg) })
}

func TestNew_NilRegisterer(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		c.ObserveResolution("xrEndFrame", ports.OutcomeLocal)
	})
}
