package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookshelf"

// Metrics holds the shelf's Prometheus collectors. A nil *Metrics records nothing,
// so components can take one optionally.
type Metrics struct {
	PlacementsTotal     prometheus.Counter
	PlacementsRejected  prometheus.Counter
	RemovalsTotal       prometheus.Counter
	ShelfSlots          prometheus.Gauge
	ColoursResolved     *prometheus.CounterVec
	ColourSampleSeconds prometheus.Histogram
	SelectionsTotal     prometheus.Counter
	FrameSeconds        prometheus.Histogram
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests so runs stay isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PlacementsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "Books placed on the shelf.",
		}),
		PlacementsRejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_rejected_total",
			Help:      "Books not placed because the shelf row was full.",
		}),
		RemovalsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removals_total",
			Help:      "Books removed from the shelf.",
		}),
		ShelfSlots: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shelf_slots",
			Help:      "Occupied shelf slots, pending ones included.",
		}),
		ColoursResolved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cover_colours_total",
			Help:      "Cover colour lookups by outcome (hit, palette, sampled, fallback).",
		}, []string{"outcome"}),
		ColourSampleSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cover_sample_duration_seconds",
			Help:      "Time spent fetching and averaging a cover image.",
			Buckets:   prometheus.DefBuckets,
		}),
		SelectionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Taps that selected a book.",
		}),
		FrameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Controller frame step time.",
			Buckets:   []float64{.0005, .001, .002, .004, .008, .016, .033},
		}),
	}
}

// Placed counts a book added to the shelf.
func (m *Metrics) Placed() {
	if m != nil {
		m.PlacementsTotal.Inc()
	}
}

// Rejected counts a book turned away by a full row.
func (m *Metrics) Rejected() {
	if m != nil {
		m.PlacementsRejected.Inc()
	}
}

// Removed counts a book taken off the shelf.
func (m *Metrics) Removed() {
	if m != nil {
		m.RemovalsTotal.Inc()
	}
}

// SetSlots records the current slot count.
func (m *Metrics) SetSlots(n int) {
	if m != nil {
		m.ShelfSlots.Set(float64(n))
	}
}

// Colour counts a colour lookup outcome.
func (m *Metrics) Colour(outcome string) {
	if m != nil {
		m.ColoursResolved.WithLabelValues(outcome).Inc()
	}
}

// ObserveSample records how long a cover sample took.
func (m *Metrics) ObserveSample(d time.Duration) {
	if m != nil {
		m.ColourSampleSeconds.Observe(d.Seconds())
	}
}

// Selected counts a tap that hit a book.
func (m *Metrics) Selected() {
	if m != nil {
		m.SelectionsTotal.Inc()
	}
}

// ObserveFrame records the time spent in one controller frame.
func (m *Metrics) ObserveFrame(d time.Duration) {
	if m != nil {
		m.FrameSeconds.Observe(d.Seconds())
	}
}
