package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rcliao/trackr/internal/model"
)

// Day is one exported partition.
type Day struct {
	Day     string                 `json:"day"`
	Records []model.ActivityRecord `json:"records"`
}

// ExportAll returns every partition ordered by day key.
func (s *Store) ExportAll(ctx context.Context) ([]Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var days []Day
	s.b.read(func(c container) {
		for key, recs := range c {
			days = append(days, Day{Day: key, Records: append([]model.ActivityRecord{}, recs...)})
		}
	})
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days, nil
}

// Import merges records from an export into day's partition. Records whose
// ID is already present are skipped. The merged partition is ordered by
// start time. Returns the number of records added.
func (s *Store) Import(ctx context.Context, day time.Time, recs []model.ActivityRecord) (int, error) {
	key := model.DayKey(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		added   int
		prev    []model.ActivityRecord
		existed bool
	)
	s.b.write(func(c container) {
		prev, existed = c[key]
		seen := make(map[string]struct{}, len(prev))
		for _, r := range prev {
			seen[r.ID] = struct{}{}
		}
		merged := append([]model.ActivityRecord{}, prev...)
		for _, r := range recs {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
			added++
		}
		if added == 0 {
			return
		}
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].TimeRange.Start.Before(merged[j].TimeRange.Start)
		})
		c[key] = merged
	})
	if added == 0 {
		return 0, nil
	}
	if err := s.saveOrRevert(ctx, key, prev, existed); err != nil {
		return 0, fmt.Errorf("import %s: %w", key, err)
	}
	return added, nil
}
