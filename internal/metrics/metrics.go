// Package metrics records per-run pipeline metrics on a private Prometheus
// registry and optionally exports them for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/winspan/boomrules/internal/rules"
	"github.com/winspan/boomrules/pkg/utils"
)

type Metrics struct {
	registry *prometheus.Registry
	textfile string

	lines         *prometheus.CounterVec
	tokens        *prometheus.GaugeVec
	fetchDuration prometheus.Gauge
	fetchBytes    prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// New builds the collectors. An empty textfile keeps metrics in memory only.
func New(textfile string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		lines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boomrules_lines_total",
				Help: "Upstream lines processed, by normalization result.",
			},
			[]string{"result"},
		),
		tokens: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "boomrules_tokens",
				Help: "Tokens produced by the last run, by stage.",
			},
			[]string{"stage"},
		),
		fetchDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boomrules_fetch_duration_seconds",
			Help: "Duration of the last upstream download.",
		}),
		fetchBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boomrules_fetch_bytes",
			Help: "Decoded size of the last upstream download.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boomrules_last_success_timestamp_seconds",
			Help: "Unix time of the last run that wrote both outputs.",
		}),
	}

	m.registry.MustRegister(m.lines, m.tokens, m.fetchDuration, m.fetchBytes, m.lastSuccess)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveFetch(elapsed time.Duration, size int) {
	m.fetchDuration.Set(elapsed.Seconds())
	m.fetchBytes.Set(float64(size))
}

func (m *Metrics) ObserveRun(st rules.Stats) {
	m.lines.WithLabelValues(rules.LineToken.String()).Add(float64(st.Accepted))
	m.lines.WithLabelValues(rules.LineBlank.String()).Add(float64(st.Blank))
	m.lines.WithLabelValues(rules.LineComment.String()).Add(float64(st.Comment))
	m.lines.WithLabelValues(rules.LineInlineEmpty.String()).Add(float64(st.InlineEmpty))

	m.tokens.WithLabelValues("derived").Set(float64(st.Derived))
	m.tokens.WithLabelValues("rewritten").Set(float64(st.Rewritten))
	m.tokens.WithLabelValues("unique").Set(float64(st.Unique))

	m.lastSuccess.SetToCurrentTime()
}

// Flush writes the registry to the textfile, if one is configured.
func (m *Metrics) Flush() error {
	if m.textfile == "" {
		return nil
	}
	if err := utils.EnsureDir(filepath.Dir(m.textfile)); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	return prometheus.WriteToTextfile(m.textfile, m.registry)
}
