// Package model defines the core activity tracking data types.
package model

import (
	"fmt"
	"time"
)

// KindType discriminates the ActivityKind variants.
type KindType string

const (
	KindAFK          KindType = "afk"
	KindActiveWindow KindType = "window"
)

// ActivityKind is what the user was doing: idle (AFK) or working in a
// specific application window. Title, AppName and AppClass are only
// meaningful for KindActiveWindow.
type ActivityKind struct {
	Type     KindType `json:"type"`
	Title    string   `json:"title,omitempty"`
	AppName  string   `json:"app_name,omitempty"`
	AppClass string   `json:"app_class,omitempty"`
}

// AFK returns the idle activity kind.
func AFK() ActivityKind {
	return ActivityKind{Type: KindAFK}
}

// ActiveWindow returns the activity kind for a focused window.
func ActiveWindow(title, appName, appClass string) ActivityKind {
	return ActivityKind{
		Type:     KindActiveWindow,
		Title:    title,
		AppName:  appName,
		AppClass: appClass,
	}
}

// IsAFK reports whether k is the idle kind.
func (k ActivityKind) IsAFK() bool {
	return k.Type == KindAFK
}

// Equal reports whether two kinds describe the same activity. All AFK values
// are equal; windows are equal when title, name and class all match.
func (k ActivityKind) Equal(other ActivityKind) bool {
	if k.Type != other.Type {
		return false
	}
	if k.Type == KindAFK {
		return true
	}
	return k.Title == other.Title && k.AppName == other.AppName && k.AppClass == other.AppClass
}

// SameKind compares two optional kinds; two nil kinds are the same.
func SameKind(a, b *ActivityKind) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (k ActivityKind) String() string {
	if k.IsAFK() {
		return "AFK"
	}
	return fmt.Sprintf("%s [%s/%s]", k.Title, k.AppName, k.AppClass)
}

// StatusType discriminates the ProductivityStatus variants.
type StatusType string

const (
	StatusNeutral    StatusType = "neutral"
	StatusProductive StatusType = "productive"
	StatusLeisure    StatusType = "leisure"
)

// ProductivityStatus is the classification assigned to a record. Activity
// names the configured activity for productive and leisure statuses.
type ProductivityStatus struct {
	Type     StatusType `json:"type"`
	Activity string     `json:"activity,omitempty"`
}

func Neutral() ProductivityStatus {
	return ProductivityStatus{Type: StatusNeutral}
}

func Productive(activity string) ProductivityStatus {
	return ProductivityStatus{Type: StatusProductive, Activity: activity}
}

func Leisure(activity string) ProductivityStatus {
	return ProductivityStatus{Type: StatusLeisure, Activity: activity}
}

// Value maps the status onto the productivity scale: +1, -1 or 0.
func (p ProductivityStatus) Value() float64 {
	switch p.Type {
	case StatusProductive:
		return 1
	case StatusLeisure:
		return -1
	default:
		return 0
	}
}

func (p ProductivityStatus) String() string {
	switch p.Type {
	case StatusProductive:
		return fmt.Sprintf("Productive (%s)", p.Activity)
	case StatusLeisure:
		return fmt.Sprintf("Leisure (%s)", p.Activity)
	default:
		return "Neutral"
	}
}

// TimeRange is a closed interval of wall-clock time.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End-Start, or zero if the clock went backwards.
func (r TimeRange) Duration() time.Duration {
	d := r.End.Sub(r.Start)
	if d < 0 {
		return 0
	}
	return d
}

// ActivityRecord is one closed segment of constant activity.
type ActivityRecord struct {
	ID           string             `json:"id"`
	TimeRange    TimeRange          `json:"time_range"`
	Productivity ProductivityStatus `json:"productivity"`
	Kind         ActivityKind       `json:"kind"`
}

// Duration is a shorthand for r.TimeRange.Duration().
func (r ActivityRecord) Duration() time.Duration {
	return r.TimeRange.Duration()
}

// DayKeyLayout is the layout of the store's partition keys.
const DayKeyLayout = "2006-01-02"

// DayKey returns the partition key for t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a "YYYY-MM-DD" key as a local date.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, time.Local)
}
