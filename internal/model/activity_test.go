package model

import (
	"testing"
	"time"
)

func TestActivityKindEqual(t *testing.T) {
	a := ActiveWindow("draft.rs", "Code", "code-oss")
	b := ActiveWindow("draft.rs", "Code", "code-oss")
	c := ActiveWindow("other.rs", "Code", "code-oss")

	if !a.Equal(b) {
		t.Error("identical windows should be equal")
	}
	if a.Equal(c) {
		t.Error("windows with different titles should differ")
	}
	if !AFK().Equal(AFK()) {
		t.Error("AFK should equal AFK")
	}
	if AFK().Equal(a) || a.Equal(AFK()) {
		t.Error("AFK should never equal a window")
	}
}

func TestSameKind(t *testing.T) {
	w := ActiveWindow("t", "n", "c")
	afk := AFK()

	if !SameKind(nil, nil) {
		t.Error("nil kinds should be the same")
	}
	if SameKind(&w, nil) || SameKind(nil, &w) {
		t.Error("nil and window should differ")
	}
	if SameKind(&w, &afk) {
		t.Error("window and AFK should differ")
	}
}

func TestProductivityStatusString(t *testing.T) {
	cases := map[string]ProductivityStatus{
		"Neutral":             Neutral(),
		"Productive (coding)": Productive("coding"),
		"Leisure (games)":     Leisure("games"),
	}
	for want, p := range cases {
		if got := p.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
	if Productive("x").Value() != 1 || Leisure("x").Value() != -1 || Neutral().Value() != 0 {
		t.Error("unexpected productivity values")
	}
}

func TestTimeRangeDurationClamp(t *testing.T) {
	now := time.Now()
	r := TimeRange{Start: now, End: now.Add(-5 * time.Second)}
	if r.Duration() != 0 {
		t.Errorf("backward range should clamp to 0, got %v", r.Duration())
	}
	r = TimeRange{Start: now, End: now.Add(10 * time.Second)}
	if r.Duration() != 10*time.Second {
		t.Errorf("expected 10s, got %v", r.Duration())
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	d := time.Date(2020, 5, 6, 13, 45, 0, 0, time.Local)
	key := DayKey(d)
	if key != "2020-05-06" {
		t.Fatalf("expected 2020-05-06, got %q", key)
	}
	parsed, err := ParseDayKey(key)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Year() != 2020 || parsed.Month() != time.May || parsed.Day() != 6 {
		t.Errorf("unexpected parsed date %v", parsed)
	}
	if _, err := ParseDayKey("records"); err == nil {
		t.Error("expected error for non-date key")
	}
}
