// Package timing measures the duration of named phases of an attribution run.
//
// A Recorder logs every finished phase through slog and observes it in a
// Prometheus histogram, touchpath_phase_duration_seconds{phase="..."}.
// A nil *Recorder is valid and records nothing.
//
//	stop := rec.Track("shapley")
//	defer stop()
package timing

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricName is the histogram exported by a Recorder.
const MetricName = "touchpath_phase_duration_seconds"

// Recorder tracks phase durations.
type Recorder struct {
	logger *slog.Logger
	phases *prometheus.HistogramVec
	now    func() time.Time
}

// NewRecorder builds a Recorder and registers its histogram with reg.
// A nil logger falls back to slog.Default(); a nil reg skips registration.
// Registering twice with the same reg reuses the existing histogram.
func NewRecorder(logger *slog.Logger, reg prometheus.Registerer) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	phases := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricName,
		Help:    "Duration of attribution phases.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"phase"})

	if reg != nil {
		if err := reg.Register(phases); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, fmt.Errorf("timing: register %s: %w", MetricName, err)
			}
			existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				return nil, fmt.Errorf("timing: register %s: %w", MetricName, err)
			}
			phases = existing
		}
	}

	return &Recorder{logger: logger, phases: phases, now: time.Now}, nil
}

// Track starts timing phase and returns the function that stops it. The stop
// function logs and records the elapsed time once; later calls return the
// same duration without recording again.
func (r *Recorder) Track(phase string) func() time.Duration {
	if r == nil {
		start := time.Now()
		return func() time.Duration { return time.Since(start) }
	}

	start := r.now()
	var (
		done    bool
		elapsed time.Duration
	)

	return func() time.Duration {
		if done {
			return elapsed
		}
		done = true
		elapsed = r.now().Sub(start)
		r.phases.WithLabelValues(phase).Observe(elapsed.Seconds())
		r.logger.Debug("phase finished",
			slog.String("phase", phase),
			slog.Duration("elapsed", elapsed),
		)

		return elapsed
	}
}

// With returns a copy of r logging through logger. The histogram is shared.
func (r *Recorder) With(logger *slog.Logger) *Recorder {
	if r == nil {
		return nil
	}
	cp := *r
	cp.logger = logger

	return &cp
}
