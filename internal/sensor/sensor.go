// Package sensor reports the focused window and how long input has been idle.
package sensor

import (
	"context"
	"sync"

	"github.com/rcliao/trackr/internal/model"
)

// Sensor observes the desktop. Observe returns nil when no window is
// focused.
type Sensor interface {
	Observe(ctx context.Context) (*model.ActivityKind, error)
	InputIdleSeconds(ctx context.Context) (int, error)
}

// Static is a Sensor whose readings are set by the caller.
type Static struct {
	mu   sync.Mutex
	kind *model.ActivityKind
	idle int
	err  error
}

// NewStatic returns a sensor reporting kind with no idle time.
func NewStatic(kind *model.ActivityKind) *Static {
	return &Static{kind: kind}
}

// Set changes the observed window.
func (s *Static) Set(kind *model.ActivityKind) {
	s.mu.Lock()
	s.kind = kind
	s.mu.Unlock()
}

// SetIdle changes the reported idle seconds.
func (s *Static) SetIdle(seconds int) {
	s.mu.Lock()
	s.idle = seconds
	s.mu.Unlock()
}

// SetErr makes both readings fail with err until cleared with nil.
func (s *Static) SetErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Static) Observe(context.Context) (*model.ActivityKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.kind == nil {
		return nil, nil
	}
	k := *s.kind
	return &k, nil
}

func (s *Static) InputIdleSeconds(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return s.idle, nil
}
