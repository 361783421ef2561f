package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/pkg/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openframe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv() []string { return nil }

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("flattens nested yaml", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "server:\n  address: \":9090\"\n  read_timeout: 5s\n  workers: 4\nsession:\n  store: redis\n  hosts: [a, b]\n")
		cfg, err := config.Load(config.WithFile(path), config.WithEnviron(noEnv))
		require.NoError(t, err)

		require.Equal(t, ":9090", cfg.Get("server.address", ""))
		require.Equal(t, 5*time.Second, cfg.Duration("server.read_timeout", 0))
		require.Equal(t, 4, cfg.Int("server.workers", 0))
		require.Equal(t, "redis", cfg.Get("session.store", "memory"))
		require.Equal(t, "a,b", cfg.Get("session.hosts", ""))
	})

	t.Run("applies precedence defaults < file < env", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "app:\n  name: from-file\n  mode: file\n")
		cfg, err := config.Load(
			config.WithDefaults(map[string]string{"app.name": "default", "app.mode": "default", "app.debug": "false"}),
			config.WithFile(path),
			config.WithEnviron(func() []string {
				return []string{"OPENFRAME_APP_MODE=env", "UNRELATED=1", "OPENFRAME_=skip"}
			}),
		)
		require.NoError(t, err)

		require.Equal(t, "from-file", cfg.Get("app.name", ""))
		require.Equal(t, "env", cfg.Get("app.mode", ""))
		require.False(t, cfg.Bool("app.debug", true))
		_, ok := cfg.Lookup("unrelated")
		require.False(t, ok)
	})

	t.Run("missing required file fails", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(config.WithFile(filepath.Join(t.TempDir(), "absent.yaml")))
		require.ErrorIs(t, err, config.ErrReadFile)
	})

	t.Run("missing optional file is ignored", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(
			config.WithOptionalFile(filepath.Join(t.TempDir(), "absent.yaml")),
			config.WithEnviron(noEnv),
		)
		require.NoError(t, err)
		require.Empty(t, cfg.Keys())
	})

	t.Run("invalid yaml fails", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(config.WithFile(writeFile(t, "server: [unclosed")))
		require.ErrorIs(t, err, config.ErrParseFile)
	})

	t.Run("empty prefix disables env", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(
			config.WithEnvPrefix(""),
			config.WithEnviron(func() []string { return []string{"OPENFRAME_X=1"} }),
		)
		require.NoError(t, err)
		require.Equal(t, "none", cfg.Get("x", "none"))
	})
}

func TestConfig_Fallbacks(t *testing.T) {
	t.Parallel()

	cfg := config.New(map[string]string{"Port": "abc", "Flag": "yes?"})
	require.Equal(t, "abc", cfg.Get("port", ""))
	require.Equal(t, 8080, cfg.Int("port", 8080))
	require.True(t, cfg.Bool("flag", true))
	require.Equal(t, time.Second, cfg.Duration("missing", time.Second))
	require.Equal(t, []string{"flag", "port"}, cfg.Keys())

	var nilCfg *config.Config
	require.Equal(t, "def", nilCfg.Get("any", "def"))
	require.Nil(t, nilCfg.Keys())
}
