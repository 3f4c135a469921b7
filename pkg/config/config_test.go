package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matt-steen/day-planner/pkg/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Nil(err)
	assert.Equal(15, cfg.NotifyLeadMinutes)
	assert.Equal("08:00", cfg.SweepTime)
	assert.Contains(cfg.DBPath, "planner.sqlite")
	assert.Contains(cfg.LogPath, "planner.log")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "db-path = \"/tmp/custom.sqlite\"\nnotify-lead-minutes = 30\n"
	assert.Nil(os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	assert.Nil(err)
	assert.Equal("/tmp/custom.sqlite", cfg.DBPath)
	assert.Equal(30, cfg.NotifyLeadMinutes)

	// keys absent from the file keep their defaults
	assert.Equal("08:00", cfg.SweepTime)
	assert.Contains(cfg.LogPath, "planner.log")
}

func TestLoadBadFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	assert.Nil(os.WriteFile(path, []byte("not toml ==="), 0o644))

	_, err := config.Load(path)
	assert.NotNil(err)
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "a", "b", "planner.sqlite")
	assert.Nil(config.EnsureDir(path))

	info, err := os.Stat(filepath.Dir(path))
	assert.Nil(err)
	assert.True(info.IsDir())
}
