package sensor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trackr/internal/model"
)

type fakeX struct {
	outputs map[string]string
	err     error
}

func (f *fakeX) run(_ context.Context, name string, args ...string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := strings.Join(append([]string{name}, args...), " ")
	out, ok := f.outputs[key]
	if !ok {
		return nil, errors.New("unexpected command: " + key)
	}
	return []byte(out), nil
}

func newFakeSensor(f *fakeX, procName string) *X11Sensor {
	s := NewX11(zerolog.Nop())
	s.run = f.run
	s.processName = func(pid int32) (string, error) {
		if procName == "" {
			return "", errors.New("no such process")
		}
		return procName, nil
	}
	return s
}

func TestObserveFocusedWindow(t *testing.T) {
	f := &fakeX{outputs: map[string]string{
		"xprop -root _NET_ACTIVE_WINDOW": "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007\n",
		"xprop -id 0x3a00007 _NET_WM_NAME WM_CLASS _NET_WM_PID": `_NET_WM_NAME(UTF8_STRING) = "Say \"hi\" - Mozilla Firefox"
WM_CLASS(STRING) = "Navigator", "firefox"
_NET_WM_PID(CARDINAL) = 4242
`,
	}}
	s := newFakeSensor(f, "firefox-bin")

	kind, err := s.Observe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, kind)
	assert.Equal(t, model.ActiveWindow(`Say "hi" - Mozilla Firefox`, "Navigator", "firefox"), *kind)
}

func TestObserveFallsBackToProcessName(t *testing.T) {
	f := &fakeX{outputs: map[string]string{
		"xprop -root _NET_ACTIVE_WINDOW": "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x1c00003\n",
		"xprop -id 0x1c00003 _NET_WM_NAME WM_CLASS _NET_WM_PID": `_NET_WM_NAME(UTF8_STRING) = "term"
WM_CLASS:  not found.
_NET_WM_PID(CARDINAL) = 77
`,
	}}
	kind, err := newFakeSensor(f, "st").Observe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ActiveWindow("term", "st", "st"), *kind)
}

func TestObserveNoFocus(t *testing.T) {
	f := &fakeX{outputs: map[string]string{
		"xprop -root _NET_ACTIVE_WINDOW": "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x0\n",
	}}
	kind, err := newFakeSensor(f, "").Observe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, kind)
}

func TestObserveError(t *testing.T) {
	f := &fakeX{err: ErrNoDisplay}
	_, err := newFakeSensor(f, "").Observe(context.Background())
	assert.ErrorIs(t, err, ErrNoDisplay)
}

func TestInputIdleSeconds(t *testing.T) {
	f := &fakeX{outputs: map[string]string{"xprintidle": "12999\n"}}
	idle, err := newFakeSensor(f, "").InputIdleSeconds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, idle)

	f.outputs["xprintidle"] = "garbage"
	_, err = newFakeSensor(f, "").InputIdleSeconds(context.Background())
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	w := model.ActiveWindow("a", "b", "c")
	s := NewStatic(&w)

	got, err := s.Observe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, w, *got)

	s.Set(nil)
	got, _ = s.Observe(context.Background())
	assert.Nil(t, got)

	s.SetIdle(30)
	idle, _ := s.InputIdleSeconds(context.Background())
	assert.Equal(t, 30, idle)

	s.SetErr(ErrNoDisplay)
	_, err = s.Observe(context.Background())
	assert.ErrorIs(t, err, ErrNoDisplay)
}
