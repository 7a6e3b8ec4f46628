package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vitals-sampler/internal/reading"
)

func TestObserveTick(t *testing.T) {
	m := New()
	at := time.Unix(1700000000, 0)

	m.ObserveTick(reading.Snapshot{Tuple: reading.Tuple{HeartRate: reading.Of(70)}, At: at}, false)
	m.ObserveTick(reading.Snapshot{At: at}, false)
	m.ObserveTick(reading.Snapshot{At: at}, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.present.WithLabelValues("heartRate")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastTick))
}

func TestObserveRequestAndWait(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/read/{sensor}", 400, time.Millisecond)
	m.ObserveWait(300*time.Millisecond, true)
	m.ObserveMirrorWrite("status", errors.New("x"))
	m.ObserveMirrorWrite("status", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/read/{sensor}", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.waits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mirrorWrite.WithLabelValues("status", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mirrorWrite.WithLabelValues("status", "ok")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/healthz", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `vitals_http_requests_total{code="200",route="/healthz"} 1`))
}
