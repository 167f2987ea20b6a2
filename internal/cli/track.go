package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/classifier"
	"github.com/rcliao/trackr/internal/config"
	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/report"
	"github.com/rcliao/trackr/internal/sampler"
	"github.com/rcliao/trackr/internal/sensor"
	"github.com/rcliao/trackr/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Sample the focused window until interrupted",
		Long: "Sample the focused window about once a second, classify each segment and store it. " +
			"The config file is reloaded when it changes. Stop with Ctrl-C; the open segment is saved on exit.",
		Run: runTrack,
	}

	cmd.Flags().Duration("interval", sampler.DefaultInterval, "Sampling interval")
	cmd.Flags().Bool("live", false, "Redraw a live view with the rolling productivity sparkline")
	cmd.Flags().Duration("window", report.DefaultSpan, "Rolling window length for --live")
	cmd.Flags().Bool("dry-run", false, "Keep records in memory only")

	RootCmd.AddCommand(cmd)
}

func runTrack(cmd *cobra.Command, args []string) {
	interval, _ := cmd.Flags().GetDuration("interval")
	live, _ := cmd.Flags().GetBool("live")
	span, _ := cmd.Flags().GetDuration("window")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sensor.Available(); err != nil {
		exitErr("sensor", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	logger.Info().Str("source", string(loaded.Source)).Str("path", loaded.Path).
		Int("activities", loaded.Config.Compile().Activities()).Msg("config loaded")

	var s *store.Store
	if dryRun {
		s, err = store.Open(ctx, store.Config{Logger: logger})
	} else {
		s, err = openStore(ctx)
	}
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var (
		mu     sync.Mutex
		window = report.NewRollingWindow(span)
	)
	if today, err := s.QueryToday(ctx); err == nil {
		window.Push(today...)
	}

	smp := sampler.New(sampler.Config{
		Sensor:     sensor.NewX11(logger),
		Classifier: classifier.New(loaded.Config),
		Store:      s,
		Logger:     logger,
		Interval:   interval,
		OnRecord: func(r model.ActivityRecord) {
			mu.Lock()
			window.Push(r)
			mu.Unlock()
		},
	})

	if loaded.Path != "" {
		w, err := config.Watch(loaded.Path, logger, func(cfg *classifier.Config) {
			env.Apply(cfg)
			smp.Reconfigure(cfg)
		})
		if err != nil {
			logger.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			defer w.Close()
		}
	}

	if live {
		go renderLive(ctx, smp, window, &mu, interval)
	}

	if err := smp.Run(ctx); err != nil {
		exitErr("track", err)
	}
}

func renderLive(ctx context.Context, smp *sampler.Sampler, window *report.RollingWindow, mu *sync.Mutex, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			st := smp.Status()
			mu.Lock()
			window.Advance(now)
			view := report.RenderLive(st.Current, st.Productivity, st.Period, window, now, 60)
			mu.Unlock()
			fmt.Print("\033[H\033[2J" + view)
		}
	}
}
