package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "pop-launcher", cfg.Daemon.Command)
	require.Equal(t, "!h ", cfg.Modes.HistoryPrefix)
	require.NotEmpty(t, cfg.History.DBPath)
	require.Equal(t, 10, cfg.UI.VisibleRows)
	require.Equal(t, 60, cfg.UI.InputWidth)

	names := make([]string, 0, len(cfg.Modes.Plugins))
	for _, p := range cfg.Modes.Plugins {
		names = append(names, p.Name)
	}
	require.Contains(t, names, "find")
	require.Contains(t, names, "run")
	require.Contains(t, names, "calc")
	require.Len(t, cfg.Modes.Web, 2)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cs := NewConfigService()

	original := DefaultConfig()
	original.Daemon.Command = "my-launcher"
	original.Daemon.Args = []string{"--verbose"}
	original.Modes.Plugins = []PluginConfig{
		{Name: "files", Modifier: "f ", History: true},
	}
	original.UI.VisibleRows = 7

	require.NoError(t, cs.SaveToPath(original, path))

	loaded, err := cs.LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "my-launcher", loaded.Daemon.Command)
	require.Equal(t, []string{"--verbose"}, loaded.Daemon.Args)
	require.Equal(t, original.Modes.Plugins, loaded.Modes.Plugins)
	require.Equal(t, 7, loaded.UI.VisibleRows)
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[daemon]\ncommand = \"pop-launcher\"\n"), 0644))

	cs := NewConfigService()
	cfg, err := cs.LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "!h ", cfg.Modes.HistoryPrefix)
	require.NotEmpty(t, cfg.History.DBPath)
	require.Equal(t, 10, cfg.UI.VisibleRows)
}

func TestLoadFromPathBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("daemon = [broken"), 0644))

	cs := NewConfigService()
	_, err := cs.LoadFromPath(path)
	require.Error(t, err)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	cs := NewConfigService()
	_, err := cs.LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestSaveToPathCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.toml")
	cs := NewConfigService()

	require.NoError(t, cs.SaveToPath(DefaultConfig(), path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
