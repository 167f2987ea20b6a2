package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/trackr/internal/classifier"
	"github.com/rcliao/trackr/internal/config"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage the activity config",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active config and where it was loaded from",
		Run:   runConfigShow,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a config for entries that would be ignored",
		Args:  cobra.MaximumNArgs(1),
		Run:   runConfigValidate,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to the user config directory",
		Run:   runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config")

	configCmd.AddCommand(showCmd, validateCmd, initCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	loaded, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	if jsonOutput() {
		printJSON(map[string]any{
			"path":   loaded.Path,
			"source": loaded.Source,
			"config": loaded.Config,
		})
		return
	}

	where := loaded.Path
	if where == "" {
		where = "built-in default"
	}
	fmt.Printf("# source: %s (%s)\n", loaded.Source, where)
	b, err := yaml.Marshal(loaded.Config)
	if err != nil {
		exitErr("encode config", err)
	}
	fmt.Print(string(b))
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	var (
		cfg *classifier.Config
		err error
	)
	if len(args) == 1 {
		cfg, err = config.ReadFile(args[0])
	} else {
		var loaded *config.Loaded
		if loaded, err = loadConfig(); err == nil {
			cfg = loaded.Config
		}
	}
	if err != nil {
		exitErr("load config", err)
	}

	if err := cfg.Validate(); err != nil {
		exitErr("validate", err)
	}
	compiled := cfg.Compile()
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"activities":%d}`+"\n", compiled.Activities())
}

func runConfigInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")

	path := configPath
	if path == "" {
		path = config.UserConfigPath("")
	}
	if path == "" {
		exitErr("config init", errors.New("cannot determine config directory"))
	}
	if _, err := os.Stat(path); err == nil && !force {
		exitErr("config init", fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		exitErr("config init", err)
	}
	if err := os.WriteFile(path, config.Default(), 0o644); err != nil {
		exitErr("config init", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", path)
}
