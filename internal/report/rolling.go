// Package report derives read-side views from activity records: the rolling
// productivity metric, per-day summaries and their terminal rendering.
package report

import (
	"time"

	"github.com/rcliao/trackr/internal/model"
)

// DefaultSpan is the rolling window length shown by `trackr track`.
const DefaultSpan = 30 * time.Minute

// RollingWindow is the time-weighted average productivity of the records
// that ended within the last span. It keeps a running sum so each Push and
// Advance only touches the records entering or leaving the window.
type RollingWindow struct {
	span     time.Duration
	records  []model.ActivityRecord
	weighted float64
	seconds  float64
}

// NewRollingWindow returns an empty window; a non-positive span means
// DefaultSpan.
func NewRollingWindow(span time.Duration) *RollingWindow {
	if span <= 0 {
		span = DefaultSpan
	}
	return &RollingWindow{span: span}
}

// Span returns the window length.
func (w *RollingWindow) Span() time.Duration { return w.span }

// Push adds records in end-time order.
func (w *RollingWindow) Push(recs ...model.ActivityRecord) {
	for _, r := range recs {
		secs := r.Duration().Seconds()
		w.records = append(w.records, r)
		w.weighted += r.Productivity.Value() * secs
		w.seconds += secs
	}
}

// Advance evicts records whose end is older than now-span.
func (w *RollingWindow) Advance(now time.Time) {
	cutoff := now.Add(-w.span)
	n := 0
	for n < len(w.records) && w.records[n].TimeRange.End.Before(cutoff) {
		secs := w.records[n].Duration().Seconds()
		w.weighted -= w.records[n].Productivity.Value() * secs
		w.seconds -= secs
		n++
	}
	if n == 0 {
		return
	}
	w.records = append(w.records[:0], w.records[n:]...)
	if len(w.records) == 0 {
		w.weighted, w.seconds = 0, 0
	}
}

// Len returns the number of records in the window.
func (w *RollingWindow) Len() int { return len(w.records) }

// Value returns the average productivity in [-1, 1], or 0 when the window
// holds no tracked time.
func (w *RollingWindow) Value() float64 {
	if w.seconds <= 0 {
		return 0
	}
	v := w.weighted / w.seconds
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

// Series splits [now-span, now) into buckets of width step and returns the
// overlap-weighted productivity of each bucket, oldest first. Buckets with
// no tracked time are 0.
func (w *RollingWindow) Series(now time.Time, step time.Duration) []float64 {
	if step <= 0 {
		return nil
	}
	n := int(w.span / step)
	if n <= 0 {
		return nil
	}
	start := now.Add(-time.Duration(n) * step)
	weighted := make([]float64, n)
	secs := make([]float64, n)
	for _, r := range w.records {
		v := r.Productivity.Value()
		for i := 0; i < n; i++ {
			bs := start.Add(time.Duration(i) * step)
			ov := overlap(r.TimeRange, bs, bs.Add(step)).Seconds()
			if ov <= 0 {
				continue
			}
			weighted[i] += v * ov
			secs[i] += ov
		}
	}
	out := make([]float64, n)
	for i := range out {
		if secs[i] > 0 {
			out[i] = weighted[i] / secs[i]
		}
	}
	return out
}

func overlap(r model.TimeRange, from, to time.Time) time.Duration {
	s, e := r.Start, r.End
	if s.Before(from) {
		s = from
	}
	if e.After(to) {
		e = to
	}
	if e.Before(s) {
		return 0
	}
	return e.Sub(s)
}
