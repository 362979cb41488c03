package zstdbench

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports sweep records as Prometheus metrics.
type Metrics struct {
	duration       *prometheus.GaugeVec
	ratio          *prometheus.GaugeVec
	compressedSize *prometheus.GaugeVec
	measurements   *prometheus.CounterVec
	levelErrors    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	labels := []string{"compressor", "profile", "level"}
	m := &Metrics{
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "zstdbench",
			Name:      "compress_duration_seconds",
			Help:      "Wall time of the last compress call at a level.",
		}, labels),
		ratio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "zstdbench",
			Name:      "compression_ratio",
			Help:      "Source size divided by compressed size of the last measurement at a level.",
		}, labels),
		compressedSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "zstdbench",
			Name:      "compressed_bytes",
			Help:      "Compressed size of the last measurement at a level.",
		}, labels),
		measurements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zstdbench",
			Name:      "measurements_total",
			Help:      "Number of levels measured.",
		}, []string{"compressor", "profile"}),
		levelErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zstdbench",
			Name:      "level_errors_total",
			Help:      "Number of levels that failed to compress.",
		}, labels),
	}
	for _, c := range []prometheus.Collector{m.duration, m.ratio, m.compressedSize, m.measurements, m.levelErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe updates the collectors with rec.
func (m *Metrics) Observe(compressor string, profile Profile, rec Record) {
	level := strconv.Itoa(rec.Level)
	m.measurements.WithLabelValues(compressor, profile.String()).Inc()
	if rec.Failed() {
		m.levelErrors.WithLabelValues(compressor, profile.String(), level).Inc()
		return
	}
	m.duration.WithLabelValues(compressor, profile.String(), level).Set(rec.Seconds())
	m.ratio.WithLabelValues(compressor, profile.String(), level).Set(rec.Ratio())
	m.compressedSize.WithLabelValues(compressor, profile.String(), level).Set(float64(rec.CompressedSize))
}
