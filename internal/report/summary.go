package report

import (
	"sort"
	"time"

	"github.com/rcliao/trackr/internal/model"
)

// Summary totals one day of records.
type Summary struct {
	Day        string          `json:"day"`
	Records    int             `json:"records"`
	Tracked    time.Duration   `json:"tracked"`
	Productive time.Duration   `json:"productive"`
	Leisure    time.Duration   `json:"leisure"`
	Neutral    time.Duration   `json:"neutral"`
	AFK        time.Duration   `json:"afk"`
	Score      float64         `json:"score"`
	Activities []ActivityTotal `json:"activities"`
}

// ActivityTotal is the time spent in one configured activity.
type ActivityTotal struct {
	Name     string           `json:"name"`
	Status   model.StatusType `json:"status"`
	Duration time.Duration    `json:"duration"`
	Records  int              `json:"records"`
}

// Summarize totals recs. Score is the average productivity over the time
// that was not AFK, in [-1, 1].
func Summarize(day string, recs []model.ActivityRecord) Summary {
	s := Summary{Day: day, Records: len(recs), Activities: []ActivityTotal{}}
	byName := map[string]*ActivityTotal{}
	var weighted float64

	for _, r := range recs {
		d := r.Duration()
		s.Tracked += d
		if r.Kind.IsAFK() {
			s.AFK += d
			continue
		}
		weighted += r.Productivity.Value() * d.Seconds()
		switch r.Productivity.Type {
		case model.StatusProductive:
			s.Productive += d
		case model.StatusLeisure:
			s.Leisure += d
		default:
			s.Neutral += d
			continue
		}
		at, ok := byName[r.Productivity.Activity]
		if !ok {
			at = &ActivityTotal{Name: r.Productivity.Activity, Status: r.Productivity.Type}
			byName[r.Productivity.Activity] = at
		}
		at.Duration += d
		at.Records++
	}

	if active := s.Tracked - s.AFK; active > 0 {
		s.Score = weighted / active.Seconds()
	}
	for _, at := range byName {
		s.Activities = append(s.Activities, *at)
	}
	sort.Slice(s.Activities, func(i, j int) bool {
		if s.Activities[i].Duration != s.Activities[j].Duration {
			return s.Activities[i].Duration > s.Activities[j].Duration
		}
		return s.Activities[i].Name < s.Activities[j].Name
	})
	return s
}
