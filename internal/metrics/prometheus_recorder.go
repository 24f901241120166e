package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	postsRendered   prom.Gauge
	rebuildTriggers *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "blogbuilder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogbuilder",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.postsRendered = prom.NewGauge(prom.GaugeOpts{
			Namespace: "blogbuilder",
			Name:      "posts_rendered",
			Help:      "Number of posts rendered by the last successful build",
		})
		pr.rebuildTriggers = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogbuilder",
			Name:      "rebuild_triggers_total",
			Help:      "Rebuild triggers by source",
		}, []string{"source"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.postsRendered, pr.rebuildTriggers)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPostsRendered(n int) {
	if p == nil || p.postsRendered == nil {
		return
	}
	p.postsRendered.Set(float64(n))
}

func (p *PrometheusRecorder) IncRebuildTrigger(source string) {
	if p == nil || p.rebuildTriggers == nil {
		return
	}
	p.rebuildTriggers.WithLabelValues(source).Inc()
}
