package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/trackr/internal/model"
)

func TestAFKPolicyDefaultThreshold(t *testing.T) {
	p := NewAFKPolicy(0)
	assert.Equal(t, DefaultAFKTimeout, p.Threshold())
	p.SetThreshold(-time.Second)
	assert.Equal(t, DefaultAFKTimeout, p.Threshold())
	p.SetThreshold(10 * time.Second)
	assert.Equal(t, 10*time.Second, p.Threshold())
}

func TestAFKPolicySameWindowGoesIdle(t *testing.T) {
	clock := newFakeClock()
	p := NewAFKPolicy(75*time.Second, WithClock(clock.Now))
	w := model.ActiveWindow("draft.rs", "Code", "code-oss")

	got := p.Apply(&w, 0)
	assert.True(t, got.Equal(w))

	clock.Advance(75 * time.Second)
	got = p.Apply(&w, 75)
	assert.True(t, got.Equal(w), "threshold must be exceeded, not reached")

	clock.Advance(time.Second)
	got = p.Apply(&w, 76)
	assert.True(t, got.IsAFK())
}

func TestAFKPolicyInputResetsTimer(t *testing.T) {
	clock := newFakeClock()
	p := NewAFKPolicy(10*time.Second, WithClock(clock.Now))
	w := model.ActiveWindow("a", "n", "c")

	p.Apply(&w, 0)
	clock.Advance(20 * time.Second)
	// Last input was 2s ago.
	got := p.Apply(&w, 2)
	assert.True(t, got.Equal(w))
	assert.Equal(t, 2*time.Second, p.IdleFor())

	clock.Advance(8 * time.Second)
	assert.False(t, p.Apply(&w, 10).IsAFK())

	clock.Advance(time.Second)
	assert.True(t, p.Apply(&w, 11).IsAFK())
}

func TestAFKPolicyWindowChangeResetsTimer(t *testing.T) {
	clock := newFakeClock()
	p := NewAFKPolicy(10*time.Second, WithClock(clock.Now))
	a := model.ActiveWindow("a", "n", "c")
	b := model.ActiveWindow("b", "n", "c")

	p.Apply(&a, 0)
	clock.Advance(30 * time.Second)
	// No input for 30s but the window changed: never AFK on a change.
	got := p.Apply(&b, 30)
	assert.True(t, got.Equal(b))
	assert.Zero(t, p.IdleFor())

	clock.Advance(5 * time.Second)
	assert.True(t, p.Apply(&b, 35).Equal(b))

	clock.Advance(6 * time.Second)
	assert.True(t, p.Apply(&b, 41).IsAFK())
}

func TestAFKPolicyFeedsTracker(t *testing.T) {
	clock := newFakeClock()
	p := NewAFKPolicy(10*time.Second, WithClock(clock.Now))
	tr := New(WithClock(clock.Now))
	w := model.ActiveWindow("a", "n", "c")

	var records []*model.ActivityRecord
	tick := func(idle int) {
		if rec := tr.Ping(p.Apply(&w, idle)); rec != nil {
			records = append(records, rec)
		}
	}

	tick(0)
	for i := 1; i <= 15; i++ {
		clock.Advance(time.Second)
		tick(i)
	}
	// Input again: back to the window.
	clock.Advance(time.Second)
	tick(0)

	if assert.Len(t, records, 2) {
		assert.True(t, records[0].Kind.Equal(w))
		assert.Equal(t, 11*time.Second, records[0].Duration())
		assert.True(t, records[1].Kind.IsAFK())
		assert.Equal(t, 5*time.Second, records[1].Duration())
	}
}
