package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)
	require.Equal(t, 22, cfg.SSH.Port)
	require.Equal(t, 1024, cfg.Ports.Min)
	require.Equal(t, 65535, cfg.Ports.Max)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 10, cfg.Logging.MaxSizeMB)
	require.Equal(t, 5, cfg.Logging.MaxFiles)
	require.False(t, cfg.Logging.Console)
}

func TestLoadConfigPrecedenceFileOverDefault(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[ssh]
port = 2022

[ports]
min = 8000
max = 9000

[logging]
level = "debug"
console = true
`)

	cfg, err := Load(LoadOptions{ConfigPath: cfgPath})
	require.NoError(t, err)
	require.Equal(t, 2022, cfg.SSH.Port)
	require.Equal(t, 8000, cfg.Ports.Min)
	require.Equal(t, 9000, cfg.Ports.Max)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Logging.Console)
}

func TestLoadConfigPrecedenceEnvOverFile(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[ssh]
port = 2022
`)

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
		Env: map[string]string{
			"GOUTIL_SSH_PORT": "2222",
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2222, cfg.SSH.Port)
}

func TestLoadConfigReadsDotEnvBesideConfig(t *testing.T) {
	// godotenv mutates the process environment; keep this test serial
	// and restore the variable afterwards.
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[ssh]\nport = 2022\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GOUTIL_LOG_FILE=/var/log/goutil.log\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GOUTIL_LOG_FILE") })

	cfg, err := Load(LoadOptions{ConfigPath: cfgPath})
	require.NoError(t, err)
	require.Equal(t, 2022, cfg.SSH.Port)
	require.Equal(t, "/var/log/goutil.log", cfg.Logging.File)
}

func TestLoadConfigRejectsMalformedTOML(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `[ssh`)
	_, err := Load(LoadOptions{ConfigPath: cfgPath})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigRejectsBadEnvValue(t *testing.T) {
	t.Parallel()

	_, err := Load(LoadOptions{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Env: map[string]string{
			"GOUTIL_PORTS_MIN": "lots",
		},
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigRejectsInvertedPortRange(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[ports]
min = 9000
max = 8000
`)
	_, err := Load(LoadOptions{ConfigPath: cfgPath})
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Contains(t, err.Error(), "port range")
}

func TestLoadConfigRejectsBadSSHPort(t *testing.T) {
	t.Parallel()

	cfg := writeConfigFile(t, `
[ssh]
port = 70000
`)
	_, err := Load(LoadOptions{ConfigPath: cfg})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
