package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache traffic per category. A nil *Metrics records nothing.
type Metrics struct {
	hitsTotal   *prometheus.CounterVec
	missesTotal *prometheus.CounterVec
	storesTotal *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mzcore",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache lookups that found an entry",
			},
			[]string{"category"},
		),
		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mzcore",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache lookups that found nothing",
			},
			[]string{"category"},
		),
		storesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mzcore",
				Subsystem: "cache",
				Name:      "stores_total",
				Help:      "Total number of entries stored in the cache",
			},
			[]string{"category"},
		),
	}
	for _, c := range []prometheus.Collector{m.hitsTotal, m.missesTotal, m.storesTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) lookedUp(cat Category, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.hitsTotal.WithLabelValues(cat.String()).Inc()
	} else {
		m.missesTotal.WithLabelValues(cat.String()).Inc()
	}
}

func (m *Metrics) stored(cat Category, n int) {
	if m == nil {
		return
	}
	m.storesTotal.WithLabelValues(cat.String()).Add(float64(n))
}
