package status

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/apply"
	"codeberg.org/mutker/ryzenctl/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSnapshot apply.Snapshot

func (s staticSnapshot) Snapshot() apply.Snapshot { return apply.Snapshot(s) }

type fakeCycles struct {
	records   []telemetry.CycleRecord
	err       error
	lastLimit int
}

func (f *fakeCycles) Record(context.Context, *telemetry.CycleRecord) error { return nil }

func (f *fakeCycles) Recent(_ context.Context, limit int) ([]telemetry.CycleRecord, error) {
	f.lastLimit = limit
	return f.records, f.err
}

func (f *fakeCycles) Close() error { return nil }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHealthAndState(t *testing.T) {
	snap := staticSnapshot{State: apply.Waiting, Preset: "Eco", PowerSource: "battery", Cycles: 4}
	h := NewServer(snap, nil, nil, nil).Handler()

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, h, "/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Waiting", body["state"])
	assert.Equal(t, "Eco", body["preset"])
	assert.Equal(t, "battery", body["power_source"])
	assert.EqualValues(t, 4, body["cycles"])

	assert.Equal(t, http.StatusNotFound, get(t, h, "/cycles").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/profile").Code)
}

func TestCycles(t *testing.T) {
	cycles := &fakeCycles{records: []telemetry.CycleRecord{{Preset: "Balance", Succeeded: true}}}
	h := NewServer(staticSnapshot{}, cycles, nil, nil).Handler()

	rec := get(t, h, "/cycles")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultCycleLimit, cycles.lastLimit)

	var records []telemetry.CycleRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Balance", records[0].Preset)

	get(t, h, "/cycles?limit=100000")
	assert.Equal(t, maxCycleLimit, cycles.lastLimit)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/cycles?limit=zero").Code)

	cycles.records = nil
	rec = get(t, h, "/cycles")
	assert.JSONEq(t, `[]`, rec.Body.String())

	cycles.err = fmt.Errorf("database is locked")
	assert.Equal(t, http.StatusInternalServerError, get(t, h, "/cycles").Code)
}

func TestMetricsAndProfileRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ryzenctl_apply_cycles_total 1\n")
	})
	info := map[string]string{"group": "AMDAPUPostMatisse_U"}
	h := NewServer(staticSnapshot{}, nil, metrics, info).Handler()

	rec := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ryzenctl_apply_cycles_total")

	rec = get(t, h, "/profile")
	assert.JSONEq(t, `{"group":"AMDAPUPostMatisse_U"}`, rec.Body.String())
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewServer(staticSnapshot{State: apply.Idle}, nil, nil, nil).serve(ctx, ln)
	}()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
