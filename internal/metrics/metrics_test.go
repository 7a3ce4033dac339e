package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Placed()
	m.Placed()
	m.Rejected()
	m.Removed()
	m.Selected()
	m.SetSlots(3)
	m.Colour("palette")
	m.Colour("palette")
	m.Colour("fallback")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlacementsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlacementsRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemovalsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SelectionsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ShelfSlots))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ColoursResolved.WithLabelValues("palette")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ColoursResolved.WithLabelValues("fallback")))
}

func TestHistograms(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveFrame(2 * time.Millisecond)
	m.ObserveSample(150 * time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.FrameSeconds))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ColourSampleSeconds))
}

func TestRejectedMetricName(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Rejected()
	n, err := testutil.GatherAndCount(reg, "bookshelf_placements_rejected_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Placed()
		m.Rejected()
		m.Removed()
		m.SetSlots(1)
		m.Colour("hit")
		m.ObserveSample(time.Second)
		m.Selected()
		m.ObserveFrame(time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Placed()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "bookshelf_placements_total 1")

	res, err = http.Get(srv.URL + "/healthcheck")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
