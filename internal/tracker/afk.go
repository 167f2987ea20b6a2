package tracker

import (
	"time"

	"github.com/rcliao/trackr/internal/model"
)

// DefaultAFKTimeout is used when the classifier config sets no timeout.
const DefaultAFKTimeout = 75 * time.Second

// AFKPolicy substitutes AFK for the sensed window once the same window has
// stayed focused with no input for longer than the threshold.
//
// The idle timer restarts on input and on every change of sensed kind, even
// if the new window is also untouched.
type AFKPolicy struct {
	threshold  time.Duration
	lastKind   *model.ActivityKind
	lastActive time.Time
	now        func() time.Time
}

// NewAFKPolicy creates a policy with the given threshold; a non-positive
// threshold means DefaultAFKTimeout.
func NewAFKPolicy(threshold time.Duration, opts ...Option) *AFKPolicy {
	o := buildOptions(opts)
	if threshold <= 0 {
		threshold = DefaultAFKTimeout
	}
	return &AFKPolicy{
		threshold:  threshold,
		lastActive: o.now(),
		now:        o.now,
	}
}

// SetThreshold changes the idle threshold, e.g. after a config reload.
func (p *AFKPolicy) SetThreshold(threshold time.Duration) {
	if threshold <= 0 {
		threshold = DefaultAFKTimeout
	}
	p.threshold = threshold
}

// Threshold returns the active idle threshold.
func (p *AFKPolicy) Threshold() time.Duration {
	return p.threshold
}

// Apply returns the kind to feed into the tracker for this tick. idleSeconds
// is the time since the last keyboard or mouse input as reported by the OS.
func (p *AFKPolicy) Apply(sensed *model.ActivityKind, idleSeconds int) *model.ActivityKind {
	now := p.now()

	if idleSeconds >= 0 {
		lastInput := now.Add(-time.Duration(idleSeconds) * time.Second)
		if lastInput.After(p.lastActive) {
			p.lastActive = lastInput
		}
	}

	if !model.SameKind(sensed, p.lastKind) {
		p.lastActive = now
		if sensed != nil {
			k := *sensed
			p.lastKind = &k
		} else {
			p.lastKind = nil
		}
		return sensed
	}

	if now.Sub(p.lastActive) > p.threshold {
		afk := model.AFK()
		return &afk
	}
	return sensed
}

// IdleFor returns the time since the policy last saw activity.
func (p *AFKPolicy) IdleFor() time.Duration {
	d := p.now().Sub(p.lastActive)
	if d < 0 {
		return 0
	}
	return d
}
