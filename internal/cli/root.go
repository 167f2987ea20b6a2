// Package cli implements the trackr CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/config"
	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/store"
)

var (
	dataDir    string
	configPath string
	formatFlag string
	logLevel   string

	env    *config.Env
	logger = zerolog.Nop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "trackr",
	Short: "Track where your time goes",
	Long: "trackr samples the focused window, classifies it as productive, leisure or neutral " +
		"using your rules, and keeps a per-day log of activity segments.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default: $TRACKR_DATA_DIR or $XDG_DATA_HOME/trackr)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $TRACKR_CONFIG or $XDG_CONFIG_HOME/trackr/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $TRACKR_LOG_LEVEL or info)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	env, err = config.LoadEnv()
	if err != nil {
		return err
	}
	if formatFlag != "text" && formatFlag != "json" {
		return fmt.Errorf("unknown format %q (use text or json)", formatFlag)
	}

	levelName := logLevel
	if levelName == "" {
		levelName = env.LogLevel
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

func getDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if env == nil {
		return config.DataDir("", false)
	}
	return config.DataDir(env.DataDir, env.Dev)
}

func openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, store.Config{DataDir: getDataDir(), Logger: logger})
}

func loadConfig() (*config.Loaded, error) {
	path := configPath
	if path == "" && env != nil {
		path = env.Config
	}
	loaded, err := config.Load(config.Options{Path: path})
	if err != nil {
		return nil, err
	}
	env.Apply(loaded.Config)
	if err := loaded.Config.Validate(); err != nil {
		logger.Warn().Err(err).Str("component", "config").Msg("config has entries that will be ignored")
	}
	return loaded, nil
}

func jsonOutput() bool {
	return formatFlag == "json"
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// parseDate accepts "YYYY-MM-DD", "today" and "yesterday".
func parseDate(s string, now time.Time) (time.Time, error) {
	switch s {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	d, err := model.ParseDayKey(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD, today or yesterday)", s)
	}
	return d, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
