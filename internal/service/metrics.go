package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados de generacion usados como label.
const (
	ResultGenerated   = "generated"
	ResultRegenerated = "regenerated"
	ResultReused      = "reused"
	ResultFailed      = "failed"
)

// OutlookMetrics agrupa los collectors de Prometheus del motor de outlooks.
// Un *OutlookMetrics nil es valido y no registra nada.
type OutlookMetrics struct {
	generations *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	duration    prometheus.Histogram
	batchUsers  *prometheus.CounterVec
}

// MustNewMetrics registra los collectors en reg. Si ya existen se reutilizan,
// cualquier otro error de registro hace panic.
func MustNewMetrics(reg prometheus.Registerer) *OutlookMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	generations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mingus",
			Subsystem: "outlook",
			Name:      "generations_total",
			Help:      "Daily outlook requests by result.",
		},
		[]string{"result"},
	)
	fallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mingus",
			Subsystem: "outlook",
			Name:      "fallbacks_total",
			Help:      "Content components that fell back to static defaults.",
		},
		[]string{"component"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mingus",
			Subsystem: "outlook",
			Name:      "generation_duration_seconds",
			Help:      "Time spent assembling a daily outlook.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	batchUsers := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mingus",
			Subsystem: "outlook",
			Name:      "batch_users_total",
			Help:      "Users processed by the batch driver by result.",
		},
		[]string{"result"},
	)

	return &OutlookMetrics{
		generations: mustRegister(reg, generations),
		fallbacks:   mustRegister(reg, fallbacks),
		duration:    mustRegister(reg, duration),
		batchUsers:  mustRegister(reg, batchUsers),
	}
}

func mustRegister[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *OutlookMetrics) IncGeneration(result string) {
	if m == nil || m.generations == nil {
		return
	}
	m.generations.WithLabelValues(result).Inc()
}

func (m *OutlookMetrics) IncFallback(component string) {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.WithLabelValues(component).Inc()
}

func (m *OutlookMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func (m *OutlookMetrics) IncBatchUser(result string) {
	if m == nil || m.batchUsers == nil {
		return
	}
	m.batchUsers.WithLabelValues(result).Inc()
}
