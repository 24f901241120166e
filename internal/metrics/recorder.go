package metrics

import "time"

// Recorder defines observability hooks for build and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. The
// NoopRecorder allows optional injection without nil checks at call sites.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	SetPostsRendered(n int)
	IncRebuildTrigger(source string) // source: watch|schedule|manual
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) SetPostsRendered(int)                       {}
func (NoopRecorder) IncRebuildTrigger(string)                   {}
