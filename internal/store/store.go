// Package store persists classified activity records partitioned by day.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/trackr/internal/model"
)

// FileName is the name of the record file inside the data directory.
const FileName = "records.db"

// ErrNoDataOnDate is returned by QueryByDate when nothing was ever tracked
// on the requested day.
var ErrNoDataOnDate = errors.New("no data on date")

// ErrDBFailed matches every *DBError via errors.Is.
var ErrDBFailed = errors.New("record store backend failed")

// DBError wraps a serialization or I/O fault from the backend.
type DBError struct {
	Op  string
	Err error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("record store %s: %v", e.Op, e.Err)
}

func (e *DBError) Unwrap() error { return e.Err }

func (e *DBError) Is(target error) bool { return target == ErrDBFailed }

func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DBError{Op: op, Err: err}
}

// Config holds parameters for opening a store.
type Config struct {
	// DataDir is where records.db lives. Empty means in-memory only.
	DataDir string
	// Now returns the wall clock used to pick today's partition.
	Now    func() time.Time
	Logger zerolog.Logger
}

// Store is an append-only log of activity records keyed by "YYYY-MM-DD".
// All methods are safe for concurrent use; container access is serialized.
type Store struct {
	mu  sync.Mutex
	b   backend
	now func() time.Time
	log zerolog.Logger
}

// Open opens the store in cfg.DataDir. When the directory or file cannot be
// set up, Open logs a warning and falls back to an in-memory store; the
// returned error is only non-nil when an existing file could not be read.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s := &Store{
		now: cfg.Now,
		log: cfg.Logger.With().Str("component", "store").Logger(),
	}
	if s.now == nil {
		s.now = time.Now
	}

	if cfg.DataDir == "" {
		s.b = newMemoryBackend()
		s.log.Debug().Msg("no data directory configured, using in-memory store")
		return s, nil
	}

	b, err := openSQLiteBackend(ctx, cfg.DataDir)
	if err != nil {
		if errors.Is(err, ErrDBFailed) {
			return nil, err
		}
		s.log.Warn().Err(err).Str("data_dir", cfg.DataDir).
			Msg("could not access data directory; tracking continues in memory and will NOT be saved on exit")
		s.b = newMemoryBackend()
		return s, nil
	}
	s.b = b
	s.log.Debug().Str("path", b.path).Msg("opened record store")
	return s, nil
}

// Backend reports which backend the store ended up with.
func (s *Store) Backend() BackendKind {
	return s.b.kind()
}

// Path returns the record file path, or "" for the in-memory backend.
func (s *Store) Path() string {
	if fb, ok := s.b.(*sqliteBackend); ok {
		return fb.path
	}
	return ""
}

// Append adds rec to today's partition and persists the partition.
func (s *Store) Append(ctx context.Context, rec model.ActivityRecord) error {
	return s.AppendTo(ctx, s.now(), rec)
}

// AppendTo adds rec to day's partition. The midnight split uses it to file
// the segment that ends at 00:00 under the day it belongs to.
func (s *Store) AppendTo(ctx context.Context, day time.Time, rec model.ActivityRecord) error {
	key := model.DayKey(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		prev    []model.ActivityRecord
		existed bool
	)
	s.b.write(func(c container) {
		prev, existed = c[key]
		c[key] = append(c[key], rec)
	})
	return s.saveOrRevert(ctx, key, prev, existed)
}

// saveOrRevert persists key. If the save fails the partition is put back to
// prev so memory never holds what the file does not.
func (s *Store) saveOrRevert(ctx context.Context, key string, prev []model.ActivityRecord, existed bool) error {
	err := s.b.save(ctx, key)
	if err == nil {
		return nil
	}
	s.b.write(func(c container) {
		if existed {
			c[key] = prev
		} else {
			delete(c, key)
		}
	})
	return err
}

// QueryToday returns today's records in append order; empty if none.
func (s *Store) QueryToday(ctx context.Context) ([]model.ActivityRecord, error) {
	recs, err := s.QueryByDate(ctx, s.now())
	if errors.Is(err, ErrNoDataOnDate) {
		return []model.ActivityRecord{}, nil
	}
	return recs, err
}

// QueryByDate returns the records of date's day in append order, or
// ErrNoDataOnDate if that day has no partition.
func (s *Store) QueryByDate(ctx context.Context, date time.Time) ([]model.ActivityRecord, error) {
	key := model.DayKey(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		out   []model.ActivityRecord
		found bool
	)
	s.b.read(func(c container) {
		var recs []model.ActivityRecord
		recs, found = c[key]
		out = append([]model.ActivityRecord{}, recs...)
	})
	if !found {
		return nil, fmt.Errorf("%s: %w", key, ErrNoDataOnDate)
	}
	return out, nil
}

// ListAvailableDates returns every day that has a partition. Keys that are
// not dates are skipped. The order is unspecified.
func (s *Store) ListAvailableDates(ctx context.Context) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dates []time.Time
	s.b.read(func(c container) {
		for key := range c {
			d, err := model.ParseDayKey(key)
			if err != nil {
				continue
			}
			dates = append(dates, d)
		}
	})
	return dates, nil
}

// DeleteDate drops the partition for date. Deleting an absent day returns
// ErrNoDataOnDate.
func (s *Store) DeleteDate(ctx context.Context, date time.Time) error {
	key := model.DayKey(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		prev  []model.ActivityRecord
		found bool
	)
	s.b.write(func(c container) {
		if prev, found = c[key]; found {
			delete(c, key)
		}
	})
	if !found {
		return fmt.Errorf("%s: %w", key, ErrNoDataOnDate)
	}
	return s.saveOrRevert(ctx, key, prev, true)
}

// Close releases the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.close()
}

// SortDates orders dates from most recent to oldest.
func SortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
}
