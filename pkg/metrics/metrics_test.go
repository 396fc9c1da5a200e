package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	first := NewMetrics()
	second := NewMetrics()

	first.AllocationRuns.WithLabelValues(OutcomeSuccess).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.AllocationRuns.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.AllocationRuns.WithLabelValues(OutcomeSuccess)))
}

func TestNewMetrics_CollectorsRegistered(t *testing.T) {
	m := NewMetrics()
	m.AllocationRuns.WithLabelValues(OutcomeSuccess).Inc()
	m.SeatsAssigned.WithLabelValues("merit").Add(3)
	m.Promotions.WithLabelValues("Pune").Inc()
	m.NotificationFailures.WithLabelValues(ChannelSMS).Inc()
	m.ApplicationsReceived.WithLabelValues("SC").Inc()

	count, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestPush(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewMetrics()
	m.AllocationRuns.WithLabelValues(OutcomeSuccess).Inc()

	require.NoError(t, m.Push(server.URL, "seat_allocator"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/seat_allocator", path)
}

func TestPush_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := NewMetrics()
	err := m.Push(server.URL, "seat_allocator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push metrics")
}

func TestRecord_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAllocationRun(OutcomeSuccess)
		m.RecordSeats("merit", 2)
		m.RecordPromotion("Pune")
		m.RecordNotificationFailure(ChannelSMS)
		m.RecordApplication("SC")
	})
}

func TestRecordSeats(t *testing.T) {
	m := NewMetrics()
	m.RecordSeats("reserved", 2)
	m.RecordSeats("reserved", 0)
	m.RecordSeats("merit", 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SeatsAssigned.WithLabelValues("reserved")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.SeatsAssigned.WithLabelValues("merit")))
}
