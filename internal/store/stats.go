package store

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/rcliao/trackr/internal/model"
)

// Stats holds record store statistics.
type Stats struct {
	Backend      BackendKind `json:"backend"`
	DBPath       string      `json:"db_path,omitempty"`
	DBSizeBytes  int64       `json:"db_size_bytes"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
	TotalRecords int         `json:"total_records"`
	Days         []DayStats  `json:"days"`
}

// DayStats holds per-day totals.
type DayStats struct {
	Day        string        `json:"day"`
	Records    int           `json:"records"`
	Tracked    time.Duration `json:"tracked"`
	Productive time.Duration `json:"productive"`
	Leisure    time.Duration `json:"leisure"`
	AFK        time.Duration `json:"afk"`
}

// Stats returns per-day counts, most recent day first.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Backend: s.b.kind(), DBPath: s.Path()}

	if st.DBPath != "" {
		if info, err := os.Stat(st.DBPath); err == nil {
			st.DBSizeBytes = info.Size()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if fb, ok := s.b.(*sqliteBackend); ok {
		if t, err := fb.createdAt(ctx); err == nil && !t.IsZero() {
			st.CreatedAt = &t
		}
	}

	s.b.read(func(c container) {
		for key, recs := range c {
			ds := DayStats{Day: key, Records: len(recs)}
			for _, r := range recs {
				d := r.Duration()
				ds.Tracked += d
				switch {
				case r.Kind.IsAFK():
					ds.AFK += d
				case r.Productivity.Type == model.StatusProductive:
					ds.Productive += d
				case r.Productivity.Type == model.StatusLeisure:
					ds.Leisure += d
				}
			}
			st.TotalRecords += ds.Records
			st.Days = append(st.Days, ds)
		}
	})
	sort.Slice(st.Days, func(i, j int) bool { return st.Days[i].Day > st.Days[j].Day })
	return st, nil
}
