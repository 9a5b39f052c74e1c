package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)

	m.ObserveCycle("Eco", true, 100*time.Millisecond)
	m.ObserveCycle("Eco", false, 50*time.Millisecond)
	m.ObserveCycle("Extreme", true, 80*time.Millisecond)
	m.ObserveBlocked("not_ready")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"ryzenctl_apply_cycles_total",
		"ryzenctl_apply_blocked_total",
		"ryzenctl_apply_duration_seconds",
		"ryzenctl_last_success_timestamp_seconds",
	} {
		assert.True(t, names[name], name)
	}

	count, err := testutil.GatherAndCount(reg, "ryzenctl_apply_cycles_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSetPowerSourceAndState(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)

	m.SetPowerSource("battery")
	m.SetState("", "Invoking")
	m.SetState("Invoking", "Waiting")

	count, err := testutil.GatherAndCount(reg, "ryzenctl_power_source")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = testutil.GatherAndCount(reg, "ryzenctl_controller_state")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.ObserveBlocked("unsupported_platform")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ryzenctl_apply_blocked_total{reason="unsupported_platform"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
