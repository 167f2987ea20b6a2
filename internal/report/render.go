package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/trackr/internal/model"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	neutralStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	productiveStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("13"))
	leisureStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("10"))
	warningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// StatusStyle returns the style used for a productivity status.
func StatusStyle(t model.StatusType) lipgloss.Style {
	switch t {
	case model.StatusProductive:
		return productiveStyle
	case model.StatusLeisure:
		return leisureStyle
	default:
		return neutralStyle
	}
}

// FormatDuration renders d as "1h05m", "12m30s" or "45s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// RenderSummary renders a day summary block.
func RenderSummary(s Summary) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Day "+s.Day) + "\n")
	if s.Records == 0 {
		b.WriteString(mutedStyle.Render("nothing tracked") + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "tracked     %s  (%d records)\n", FormatDuration(s.Tracked), s.Records)
	fmt.Fprintf(&b, "productive  %s\n", productiveStyle.Render(FormatDuration(s.Productive)))
	fmt.Fprintf(&b, "leisure     %s\n", leisureStyle.Render(FormatDuration(s.Leisure)))
	fmt.Fprintf(&b, "neutral     %s\n", neutralStyle.Render(FormatDuration(s.Neutral)))
	fmt.Fprintf(&b, "afk         %s\n", mutedStyle.Render(FormatDuration(s.AFK)))
	fmt.Fprintf(&b, "score       %+.2f\n", s.Score)
	if len(s.Activities) > 0 {
		b.WriteString("\n" + headerStyle.Render("Activities") + "\n")
		for _, a := range s.Activities {
			name := StatusStyle(a.Status).Render(fmt.Sprintf("%-16s", a.Name))
			fmt.Fprintf(&b, "  %s %8s  %d\n", name, FormatDuration(a.Duration), a.Records)
		}
	}
	return b.String()
}

// RenderRecords renders one line per record.
func RenderRecords(recs []model.ActivityRecord) string {
	var b strings.Builder
	for _, r := range recs {
		span := fmt.Sprintf("%s-%s", r.TimeRange.Start.Format("15:04:05"), r.TimeRange.End.Format("15:04:05"))
		status := StatusStyle(r.Productivity.Type).Render(r.Productivity.String())
		fmt.Fprintf(&b, "%s %8s  %s  %s\n", mutedStyle.Render(span), FormatDuration(r.Duration()), status, r.Kind.String())
	}
	return b.String()
}

// RenderLive renders the one-screen view shown while tracking.
func RenderLive(current *model.ActivityKind, status model.ProductivityStatus, period time.Duration, w *RollingWindow, now time.Time, width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("trackr") + "  " + mutedStyle.Render(now.Format("2006-01-02 15:04:05")) + "\n")
	if current == nil {
		b.WriteString(warningStyle.Render("no focused window") + "\n")
	} else {
		fmt.Fprintf(&b, "%s  %s  %s\n", current.String(), StatusStyle(status.Type).Render(status.String()), FormatDuration(period))
	}
	if w != nil {
		if width <= 0 {
			width = 60
		}
		step := w.Span() / time.Duration(width)
		if step < time.Second {
			step = time.Second
		}
		fmt.Fprintf(&b, "last %s  %+.2f  %s\n", FormatDuration(w.Span()), w.Value(), Sparkline(w.Series(now, step)))
	}
	return b.String()
}
