package sensor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/process"

	"github.com/rcliao/trackr/internal/model"
)

// ErrNoDisplay is returned when the X tools are missing or cannot reach a
// display.
var ErrNoDisplay = errors.New("no X display available")

const commandTimeout = 500 * time.Millisecond

var (
	activeWindowRe = regexp.MustCompile(`window id # (0x[0-9a-fA-F]+)`)
	propRe         = regexp.MustCompile(`^([A-Z_]+)\([A-Z0-9_]+\) = (.*)$`)
	quotedRe       = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// runFunc runs a command and returns its standard output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", name, ErrNoDisplay)
	}
	return out, err
}

// X11Sensor reads the focused window through xprop and the idle time
// through xprintidle.
type X11Sensor struct {
	run         runFunc
	processName func(pid int32) (string, error)
	log         zerolog.Logger
}

// NewX11 returns a sensor that shells out to the X11 command line tools.
func NewX11(log zerolog.Logger) *X11Sensor {
	return &X11Sensor{
		run:         execRun,
		processName: processName,
		log:         log.With().Str("component", "sensor").Logger(),
	}
}

// Available reports whether the required tools are on PATH.
func Available() error {
	for _, tool := range []string{"xprop", "xprintidle"} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s: %w", tool, ErrNoDisplay)
		}
	}
	return nil
}

// Observe returns the focused window, or nil when the root window reports
// no active window.
func (s *X11Sensor) Observe(ctx context.Context) (*model.ActivityKind, error) {
	out, err := s.run(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW")
	if err != nil {
		return nil, fmt.Errorf("query active window: %w", err)
	}
	id, ok := parseActiveWindow(string(out))
	if !ok {
		return nil, nil
	}

	out, err = s.run(ctx, "xprop", "-id", id, "_NET_WM_NAME", "WM_CLASS", "_NET_WM_PID")
	if err != nil {
		return nil, fmt.Errorf("query window %s: %w", id, err)
	}
	w := parseWindowProps(string(out))

	name, class := w.instance, w.class
	if (name == "" || class == "") && w.pid > 0 {
		if pname, err := s.processName(w.pid); err == nil {
			if name == "" {
				name = pname
			}
			if class == "" {
				class = pname
			}
		} else {
			s.log.Debug().Err(err).Int32("pid", w.pid).Msg("process lookup failed")
		}
	}
	kind := model.ActiveWindow(w.title, name, class)
	return &kind, nil
}

// InputIdleSeconds returns whole seconds since the last keyboard or mouse
// input.
func (s *X11Sensor) InputIdleSeconds(ctx context.Context) (int, error) {
	out, err := s.run(ctx, "xprintidle")
	if err != nil {
		return 0, fmt.Errorf("query idle time: %w", err)
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse xprintidle output %q: %w", out, err)
	}
	return int(ms / 1000), nil
}

func processName(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Name()
}

// parseActiveWindow extracts the window id from
// `_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007`. A zero id means
// nothing is focused.
func parseActiveWindow(out string) (string, bool) {
	m := activeWindowRe.FindStringSubmatch(out)
	if m == nil {
		return "", false
	}
	n, err := strconv.ParseUint(m[1][2:], 16, 64)
	if err != nil || n == 0 {
		return "", false
	}
	return m[1], true
}

type windowProps struct {
	title    string
	instance string
	class    string
	pid      int32
}

func parseWindowProps(out string) windowProps {
	var w windowProps
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		m := propRe.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		switch m[1] {
		case "_NET_WM_NAME":
			if vals := quoted(m[2]); len(vals) > 0 {
				w.title = vals[0]
			}
		case "WM_CLASS":
			vals := quoted(m[2])
			if len(vals) > 0 {
				w.instance = vals[0]
			}
			if len(vals) > 1 {
				w.class = vals[1]
			}
		case "_NET_WM_PID":
			if pid, err := strconv.ParseInt(strings.TrimSpace(m[2]), 10, 32); err == nil {
				w.pid = int32(pid)
			}
		}
	}
	return w
}

func quoted(s string) []string {
	var out []string
	for _, m := range quotedRe.FindAllStringSubmatch(s, -1) {
		out = append(out, unescape(m[1]))
	}
	return out
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
