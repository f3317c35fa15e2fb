package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Author)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.Database)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	want := Config{Author: "ada", Database: "/tmp/board.db", LogLevel: "debug"}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoad_FillsMissingFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, Save(Config{Author: "ada"}))
	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ada", got.Author)
	require.Equal(t, "info", got.LogLevel)
}
