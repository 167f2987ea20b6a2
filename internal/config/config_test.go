package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trackr/internal/classifier"
	"github.com/rcliao/trackr/internal/model"
)

const sampleYAML = `
name: Home computer
afk_timeout: 90s
activities:
  - name: coding
    weight: 1
    rules:
      - for_class: [code-oss]
        title_contains_any: [trackr]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEmbeddedDefaultIsValid(t *testing.T) {
	cfg, err := Parse(Default())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 75*time.Second, cfg.AFKTimeout)
	assert.NotEmpty(t, cfg.Activities)

	got := classifier.Classify(cfg.Compile(), model.ActiveWindow("main.go", "code", "code-oss"))
	assert.Equal(t, model.Productive("coding"), got)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("activities:\n  - name: x\n    rules:\n      - for_clas: [a]\n"))
	require.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Activities)
}

func TestLocatePrecedence(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	opts := Options{ConfigHome: home, WorkDir: work}

	path, src := Locate(opts)
	assert.Equal(t, SourceEmbedded, src)
	assert.Empty(t, path)

	dev := filepath.Join(work, DevConfigPath)
	writeFile(t, dev, sampleYAML)
	path, src = Locate(opts)
	assert.Equal(t, SourceDev, src)
	assert.Equal(t, dev, path)

	user := filepath.Join(home, AppName, FileName)
	writeFile(t, user, sampleYAML)
	path, src = Locate(opts)
	assert.Equal(t, SourceUser, src)
	assert.Equal(t, user, path)

	opts.Path = "/explicit.yaml"
	path, src = Locate(opts)
	assert.Equal(t, SourceExplicit, src)
	assert.Equal(t, "/explicit.yaml", path)
}

func TestLoad(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, AppName, FileName), sampleYAML)

	loaded, err := Load(Options{ConfigHome: home, WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, SourceUser, loaded.Source)
	assert.Equal(t, "Home computer", loaded.Config.Name)
	assert.Equal(t, 90*time.Second, loaded.Config.AFKTimeout)

	_, err = Load(Options{Path: filepath.Join(home, "missing.yaml")})
	require.Error(t, err)

	loaded, err = Load(Options{ConfigHome: t.TempDir(), WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, loaded.Source)
	assert.Equal(t, "default", loaded.Config.Name)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TRACKR_DATA_DIR", "/tmp/trackr-data")
	t.Setenv("TRACKR_AFK_TIMEOUT", "2m")
	t.Setenv("TRACKR_DEV", "true")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/trackr-data", env.DataDir)
	assert.Equal(t, 2*time.Minute, env.AFKTimeout)
	assert.Equal(t, "info", env.LogLevel)
	assert.True(t, env.Dev)

	cfg := &classifier.Config{AFKTimeout: 75 * time.Second}
	env.Apply(cfg)
	assert.Equal(t, 2*time.Minute, cfg.AFKTimeout)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("TRACKR_AFK_TIMEOUT", "soon")
	_, err := LoadEnv()
	require.Error(t, err)
}

func TestDataDir(t *testing.T) {
	assert.Equal(t, "/override", DataDir("/override", true))
	assert.Equal(t, DevDataDir, DataDir("", true))

	t.Setenv("XDG_DATA_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", AppName), DataDir("", false))

	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, "/home/someone/.local/share/trackr", DataDir("", false))
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, sampleYAML)

	changes := make(chan *classifier.Config, 4)
	w, err := Watch(path, zerolog.Nop(), func(cfg *classifier.Config) { changes <- cfg })
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	writeFile(t, path, "name: updated\nafk_timeout: 30s\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Name == "updated" {
				assert.Equal(t, 30*time.Second, cfg.AFKTimeout)
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
