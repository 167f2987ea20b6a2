package classifier

import (
	"sync"
	"time"

	"github.com/rcliao/trackr/internal/model"
)

// Compiled is a configuration ready for matching.
type Compiled struct {
	Name       string
	AFKTimeout time.Duration
	activities []compiledActivity
}

type compiledActivity struct {
	name   string
	weight int
	rules  []rule
}

func (a compiledActivity) productivity() model.ProductivityStatus {
	switch {
	case a.weight > 0:
		return model.Productive(a.name)
	case a.weight < 0:
		return model.Leisure(a.name)
	default:
		return model.Neutral()
	}
}

// Activities returns the number of usable activities.
func (c *Compiled) Activities() int {
	if c == nil {
		return 0
	}
	return len(c.activities)
}

// Classify returns the productivity status of kind under cfg.
//
// Every activity is evaluated in configuration order and a later match
// overrides an earlier one. Within an activity the first matching rule
// decides and the remaining rules of that activity are skipped.
func Classify(cfg *Compiled, kind model.ActivityKind) model.ProductivityStatus {
	if kind.IsAFK() || cfg == nil {
		return model.Neutral()
	}
	result := model.Neutral()
	for _, act := range cfg.activities {
		for _, r := range act.rules {
			if r.apply(kind.AppName, kind.AppClass, kind.Title) {
				result = act.productivity()
				break
			}
		}
	}
	return result
}

// Match describes one activity that matched a window.
type Match struct {
	Activity string                   `json:"activity"`
	Rule     int                      `json:"rule"`
	Target   string                   `json:"target"`
	Status   model.ProductivityStatus `json:"status"`
}

// Explain lists every activity that matches kind, in evaluation order. The
// last entry is the one Classify picks.
func Explain(cfg *Compiled, kind model.ActivityKind) []Match {
	if kind.IsAFK() || cfg == nil {
		return nil
	}
	var matches []Match
	for _, act := range cfg.activities {
		for i, r := range act.rules {
			if r.apply(kind.AppName, kind.AppClass, kind.Title) {
				matches = append(matches, Match{
					Activity: act.name,
					Rule:     i + 1,
					Target:   r.target.String(),
					Status:   act.productivity(),
				})
				break
			}
		}
	}
	return matches
}

// Classifier holds the active configuration. Swap may be called from a
// config watcher while the sampling loop classifies.
type Classifier struct {
	mu  sync.RWMutex
	cfg *Compiled
}

// New returns a classifier for cfg.
func New(cfg *Config) *Classifier {
	return &Classifier{cfg: cfg.Compile()}
}

// Swap replaces the configuration.
func (c *Classifier) Swap(cfg *Config) {
	compiled := cfg.Compile()
	c.mu.Lock()
	c.cfg = compiled
	c.mu.Unlock()
}

// Classify classifies kind with the current configuration.
func (c *Classifier) Classify(kind model.ActivityKind) model.ProductivityStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Classify(c.cfg, kind)
}

// AFKTimeout returns the configured idle threshold, zero if unset.
func (c *Classifier) AFKTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.AFKTimeout
}

// Compiled returns the current configuration.
func (c *Classifier) Compiled() *Compiled {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}
