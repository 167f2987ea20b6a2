// Package config locates and loads the activity configuration and resolves
// the data directory.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/trackr/internal/classifier"
)

const (
	AppName = "trackr"

	// FileName is the config file name under the user config directory.
	FileName = "config.yaml"

	// DevConfigPath and DevDataDir are used relative to the working
	// directory; the config path is a fallback, the data dir applies when
	// TRACKR_DEV is set.
	DevConfigPath = "./dev-data/sample_config.yaml"
	DevDataDir    = "./dev-data/db_access"
)

//go:embed default_config.yaml
var defaultConfig []byte

// Source tells where a loaded configuration came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceUser     Source = "user"
	SourceDev      Source = "dev"
	SourceEmbedded Source = "embedded"
)

// Env holds TRACKR_* environment overrides.
type Env struct {
	DataDir    string        `envconfig:"DATA_DIR"`
	Config     string        `envconfig:"CONFIG"`
	AFKTimeout time.Duration `envconfig:"AFK_TIMEOUT"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"info"`
	Dev        bool          `envconfig:"DEV"`
}

// LoadEnv reads TRACKR_* variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(AppName, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &env, nil
}

// Loaded is a parsed configuration plus its origin.
type Loaded struct {
	Config *classifier.Config
	Path   string
	Source Source
}

// Options controls config discovery. Zero values use the real user
// directories and the working directory.
type Options struct {
	// Path is an explicit config file; it must exist.
	Path string
	// ConfigHome overrides $XDG_CONFIG_HOME.
	ConfigHome string
	// WorkDir is where the dev-data fallback is looked up.
	WorkDir string
}

// UserConfigPath returns $XDG_CONFIG_HOME/trackr/config.yaml, falling back
// to ~/.config. Returns "" when no home directory is known.
func UserConfigPath(configHome string) string {
	if configHome == "" {
		configHome = os.Getenv("XDG_CONFIG_HOME")
	}
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, FileName)
}

// Locate picks the config file to use: the explicit path, then the user
// config file, then the dev-data sample. An empty path means the embedded
// default.
func Locate(opts Options) (string, Source) {
	if opts.Path != "" {
		return opts.Path, SourceExplicit
	}
	if p := UserConfigPath(opts.ConfigHome); p != "" && fileExists(p) {
		return p, SourceUser
	}
	dev := DevConfigPath
	if opts.WorkDir != "" {
		dev = filepath.Join(opts.WorkDir, dev)
	}
	if fileExists(dev) {
		return dev, SourceDev
	}
	return "", SourceEmbedded
}

// Load locates and parses the configuration.
func Load(opts Options) (*Loaded, error) {
	path, src := Locate(opts)
	if src == SourceEmbedded {
		cfg, err := Parse(defaultConfig)
		if err != nil {
			return nil, fmt.Errorf("embedded config: %w", err)
		}
		return &Loaded{Config: cfg, Source: src}, nil
	}
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: path, Source: src}, nil
}

// ReadFile parses the config file at path.
func ReadFile(path string) (*classifier.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into a classifier config. Unknown keys are rejected so
// typos in rule names do not silently disable a rule.
func Parse(data []byte) (*classifier.Config, error) {
	var cfg classifier.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded configuration.
func Default() []byte {
	return append([]byte(nil), defaultConfig...)
}

// Apply overlays environment overrides onto cfg.
func (e *Env) Apply(cfg *classifier.Config) {
	if e == nil || cfg == nil {
		return
	}
	if e.AFKTimeout > 0 {
		cfg.AFKTimeout = e.AFKTimeout
	}
}

// DataDir resolves where records are kept: the explicit override, the dev
// directory, then $XDG_DATA_HOME/trackr or ~/.local/share/trackr. Returns ""
// when no home directory is known, which selects in-memory storage.
func DataDir(override string, dev bool) string {
	if override != "" {
		return override
	}
	if dev {
		return DevDataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
