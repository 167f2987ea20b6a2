// Package sampler runs the tracking loop: sensor, AFK policy, tracker,
// classifier and store, once per tick.
package sampler

import (
	"context"
	"fmt"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rcliao/trackr/internal/classifier"
	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/sensor"
	"github.com/rcliao/trackr/internal/store"
	"github.com/rcliao/trackr/internal/tracker"
)

const (
	DefaultInterval = time.Second

	// MidnightSpec fires at 00:00:00 local time (seconds field first).
	MidnightSpec = "0 0 0 * * *"
)

// Config holds the sampler's collaborators.
type Config struct {
	Sensor     sensor.Sensor
	Classifier *classifier.Classifier
	Store      *store.Store
	Logger     zerolog.Logger

	// Interval between ticks; DefaultInterval when zero.
	Interval time.Duration
	// Now replaces time.Now for the tracker and AFK policy.
	Now func() time.Time
	// OnRecord is called after each record is stored.
	OnRecord func(model.ActivityRecord)
}

// Sampler owns the tracker and AFK policy. Tick, Split and Reconfigure may
// be called from different goroutines; they are serialized.
type Sampler struct {
	mu         sync.Mutex
	sensor     sensor.Sensor
	policy     *tracker.AFKPolicy
	tracker    *tracker.Tracker
	classifier *classifier.Classifier
	store      *store.Store
	log        zerolog.Logger
	interval   time.Duration
	onRecord   func(model.ActivityRecord)
	idle       int
}

// New creates a sampler. The AFK threshold is taken from the classifier
// config.
func New(cfg Config) *Sampler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		sensor:     cfg.Sensor,
		policy:     tracker.NewAFKPolicy(cfg.Classifier.AFKTimeout(), tracker.WithClock(now)),
		tracker:    tracker.New(tracker.WithClock(now)),
		classifier: cfg.Classifier,
		store:      cfg.Store,
		log:        cfg.Logger.With().Str("component", "sampler").Logger(),
		interval:   interval,
		onRecord:   cfg.OnRecord,
	}
}

// Tick samples the sensor once. It returns the record that was closed and
// stored, if any. Sensor failures count as nothing observed.
func (s *Sampler) Tick(ctx context.Context) (*model.ActivityRecord, error) {
	observed, err := s.sensor.Observe(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("observe failed")
		observed = nil
	}
	idle, err := s.sensor.InputIdleSeconds(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("idle query failed")
		idle = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.idle = idle
	kind := s.policy.Apply(observed, idle)
	rec := s.tracker.Ping(kind)
	if rec == nil {
		return nil, nil
	}
	if err := s.commit(ctx, rec, nil); err != nil {
		return rec, err
	}
	return rec, nil
}

// Split closes the open segment and reopens the same kind, so no record
// crosses the boundary. The closed record is filed under its start day.
func (s *Sampler) Split(ctx context.Context) (*model.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.tracker.Flush()
	if rec == nil {
		return nil, nil
	}
	if err := s.commit(ctx, rec, &rec.TimeRange.Start); err != nil {
		return rec, err
	}
	return rec, nil
}

// commit classifies rec and stores it under day, or under today when day
// is nil.
func (s *Sampler) commit(ctx context.Context, rec *model.ActivityRecord, day *time.Time) error {
	rec.Productivity = s.classifier.Classify(rec.Kind)
	var err error
	if day != nil {
		err = s.store.AppendTo(ctx, *day, *rec)
	} else {
		err = s.store.Append(ctx, *rec)
	}
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	s.log.Debug().
		Str("kind", rec.Kind.String()).
		Str("productivity", rec.Productivity.String()).
		Dur("duration", rec.Duration()).
		Msg("record stored")
	if s.onRecord != nil {
		s.onRecord(*rec)
	}
	return nil
}

// Reconfigure swaps the classifier config and updates the AFK threshold.
func (s *Sampler) Reconfigure(cfg *classifier.Config) {
	s.classifier.Swap(cfg)
	s.mu.Lock()
	s.policy.SetThreshold(cfg.AFKTimeout)
	s.mu.Unlock()
}

// Status is a snapshot of the open segment.
type Status struct {
	Current      *model.ActivityKind      `json:"current,omitempty"`
	Productivity model.ProductivityStatus `json:"productivity"`
	Period       time.Duration            `json:"period"`
	IdleSeconds  int                      `json:"idle_seconds"`
	AFKTimeout   time.Duration            `json:"afk_timeout"`
}

// Status reports what is being tracked right now.
func (s *Sampler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Current:      s.tracker.Current(),
		Productivity: model.Neutral(),
		Period:       s.tracker.CurrentPeriod(),
		IdleSeconds:  s.idle,
		AFKTimeout:   s.policy.Threshold(),
	}
	if st.Current != nil {
		st.Productivity = s.classifier.Classify(*st.Current)
	}
	return st
}

// Run ticks until ctx is cancelled. A cron job splits the open segment at
// midnight. On exit the open segment is closed and stored.
func (s *Sampler) Run(ctx context.Context) error {
	c := rcron.New(
		rcron.WithSeconds(),
		rcron.WithChain(rcron.SkipIfStillRunning(rcron.DiscardLogger)),
	)
	if _, err := c.AddFunc(MidnightSpec, func() {
		if _, err := s.Split(ctx); err != nil {
			s.log.Error().Err(err).Msg("midnight split failed")
			return
		}
		s.log.Info().Msg("day boundary: segment split")
	}); err != nil {
		return fmt.Errorf("schedule midnight split: %w", err)
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("sampling started")
	for {
		select {
		case <-ctx.Done():
			if _, err := s.Split(context.WithoutCancel(ctx)); err != nil {
				s.log.Error().Err(err).Msg("final flush failed")
			}
			s.log.Info().Msg("sampling stopped")
			return nil
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.log.Error().Err(err).Msg("tick failed")
			}
		}
	}
}
