package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/classifier"
	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/report"
	"github.com/rcliao/trackr/internal/sensor"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the focused window, its classification and today's totals",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

type statusOutput struct {
	Window      *model.ActivityKind      `json:"window,omitempty"`
	Status      model.ProductivityStatus `json:"status"`
	IdleSeconds int                      `json:"idle_seconds"`
	SensorError string                   `json:"sensor_error,omitempty"`
	ConfigPath  string                   `json:"config_path,omitempty"`
	Backend     string                   `json:"backend"`
	Today       report.Summary           `json:"today"`
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	loaded, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	s, err := openStore(ctx)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.QueryToday(ctx)
	if err != nil {
		exitErr("query today", err)
	}

	out := statusOutput{
		Status:     model.Neutral(),
		ConfigPath: loaded.Path,
		Backend:    string(s.Backend()),
		Today:      report.Summarize(model.DayKey(time.Now()), recs),
	}
	if err := observe(ctx, sensor.NewX11(logger), &out); err != nil {
		out.SensorError = err.Error()
	} else if out.Window != nil {
		out.Status = classifier.Classify(loaded.Config.Compile(), *out.Window)
	}

	if jsonOutput() {
		printJSON(out)
		return
	}
	switch {
	case out.SensorError != "":
		fmt.Printf("window   unavailable (%s)\n", out.SensorError)
	case out.Window == nil:
		fmt.Println("window   none focused")
	default:
		fmt.Printf("window   %s\n", out.Window)
		fmt.Printf("status   %s\n", report.StatusStyle(out.Status.Type).Render(out.Status.String()))
		fmt.Printf("idle     %s\n", report.FormatDuration(time.Duration(out.IdleSeconds)*time.Second))
	}
	fmt.Printf("storage  %s\n\n", out.Backend)
	fmt.Print(report.RenderSummary(out.Today))
}

func observe(ctx context.Context, sn sensor.Sensor, out *statusOutput) error {
	if err := sensor.Available(); err != nil {
		return err
	}
	w, err := sn.Observe(ctx)
	if err != nil {
		return err
	}
	idle, err := sn.InputIdleSeconds(ctx)
	if err != nil {
		return err
	}
	out.Window = w
	out.IdleSeconds = idle
	return nil
}
