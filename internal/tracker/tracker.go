// Package tracker turns point-in-time activity observations into closed
// activity segments.
package tracker

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/trackr/internal/model"
)

// Option configures a Tracker or AFKPolicy.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Tracker segments a stream of observations. It is not safe for concurrent
// use; the sampler owns it.
type Tracker struct {
	current      *model.ActivityKind
	segmentStart time.Time
	now          func() time.Time
	entropy      *rand.Rand
}

// New creates a tracker whose first segment starts now.
func New(opts ...Option) *Tracker {
	o := buildOptions(opts)
	return &Tracker{
		segmentStart: o.now(),
		now:          o.now,
		entropy:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Ping feeds one observation. It returns the record for the segment that
// just closed when the observed kind differs from the current one, and nil
// otherwise (including on the very first observation).
func (t *Tracker) Ping(observed *model.ActivityKind) *model.ActivityRecord {
	if model.SameKind(t.current, observed) {
		return nil
	}

	now := t.now()
	var rec *model.ActivityRecord
	if t.current != nil {
		rec = t.produce(*t.current, now)
	}

	if observed != nil {
		k := *observed
		t.current = &k
	} else {
		t.current = nil
	}
	t.segmentStart = now
	return rec
}

// Flush closes the open segment at the current time and immediately reopens
// a segment of the same kind. Returns nil when nothing is being tracked.
func (t *Tracker) Flush() *model.ActivityRecord {
	if t.current == nil {
		return nil
	}
	now := t.now()
	rec := t.produce(*t.current, now)
	t.segmentStart = now
	return rec
}

// Current returns the kind of the open segment, or nil.
func (t *Tracker) Current() *model.ActivityKind {
	if t.current == nil {
		return nil
	}
	k := *t.current
	return &k
}

// CurrentPeriod returns how long the open segment has lasted so far.
func (t *Tracker) CurrentPeriod() time.Duration {
	d := t.now().Sub(t.segmentStart)
	if d < 0 {
		return 0
	}
	return d
}

func (t *Tracker) produce(kind model.ActivityKind, end time.Time) *model.ActivityRecord {
	start := t.segmentStart
	if end.Before(start) {
		end = start
	}
	return &model.ActivityRecord{
		ID:           ulid.MustNew(ulid.Timestamp(start), t.entropy).String(),
		TimeRange:    model.TimeRange{Start: start, End: end},
		Productivity: model.Neutral(),
		Kind:         kind,
	}
}
