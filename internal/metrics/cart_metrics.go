// Package metrics публикует Prometheus-метрики корзины и передачи на оформление.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// CartMetrics реализует cart.Recorder и учёт передач на оформление.
type CartMetrics struct {
	mutations      *prometheus.CounterVec
	snapshotWrites *prometheus.CounterVec
	restores       *prometheus.CounterVec
	handoffs       *prometheus.CounterVec

	snapshotWriteDuration prometheus.Histogram

	lines prometheus.Gauge
	units prometheus.Gauge
}

// NewCartMetrics регистрирует метрики в DefaultRegisterer.
func NewCartMetrics() *CartMetrics {
	return NewCartMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCartMetricsWithRegisterer регистрирует метрики в переданном реестре.
func NewCartMetricsWithRegisterer(registerer prometheus.Registerer) *CartMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CartMetrics{
		mutations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fanwaves_cart_mutations_total",
			Help: "Total number of cart mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
		snapshotWrites: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fanwaves_cart_snapshot_writes_total",
			Help: "Total number of cart snapshot writes by result",
		}, []string{"result"}),
		restores: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fanwaves_cart_restores_total",
			Help: "Total number of cart restores by outcome",
		}, []string{"outcome"}),
		handoffs: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fanwaves_checkout_handoffs_total",
			Help: "Total number of checkout hand-offs by result",
		}, []string{"result"}),
		snapshotWriteDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "fanwaves_cart_snapshot_write_duration_seconds",
			Help:    "Duration of cart snapshot writes in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		lines: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "fanwaves_cart_lines",
			Help: "Number of lines currently in the cart",
		}),
		units: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "fanwaves_cart_units",
			Help: "Number of units currently in the cart",
		}),
	}
}

// RecordMutation увеличивает счётчик мутаций.
func (m *CartMetrics) RecordMutation(operation string, outcome domain.MutationOutcome) {
	m.mutations.WithLabelValues(operation, string(outcome)).Inc()
}

// RecordSnapshotWrite учитывает запись снапшота и её длительность.
func (m *CartMetrics) RecordSnapshotWrite(duration time.Duration, err error) {
	m.snapshotWriteDuration.Observe(duration.Seconds())
	m.snapshotWrites.WithLabelValues(resultLabel(err)).Inc()
}

// RecordRestore учитывает итог восстановления корзины.
func (m *CartMetrics) RecordRestore(outcome string) {
	m.restores.WithLabelValues(outcome).Inc()
}

// ObserveCart выставляет размер корзины.
func (m *CartMetrics) ObserveCart(lines, units int) {
	m.lines.Set(float64(lines))
	m.units.Set(float64(units))
}

// RecordHandoff учитывает передачу корзины на оформление.
func (m *CartMetrics) RecordHandoff(err error) {
	m.handoffs.WithLabelValues(resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// WriteTextfile выгружает метрики в формате textfile-коллектора node_exporter.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
