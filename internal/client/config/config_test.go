package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate очищает переменные окружения и указывает на несуществующий .env
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{EnvServerURL, EnvDBPath, EnvLogLevel, EnvTimeout, EnvPassphrase} {
		t.Setenv(key, "")
	}
	t.Setenv(EnvFile, filepath.Join(dir, "missing.env"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load([]string{"status"})
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Empty(t, cfg.Passphrase)
	assert.False(t, cfg.ShowVersion)
	assert.Equal(t, []string{"status"}, cfg.Args)
}

func TestLoad_Priority(t *testing.T) {
	dir := isolate(t)

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"GEOTASTE_DB=from-dotenv.db\nGEOTASTE_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv(EnvFile, envFile)
	// переменные, загруженные godotenv, не должны протечь в другие тесты
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvDBPath)
		_ = os.Unsetenv(EnvLogLevel)
	})
	_ = os.Unsetenv(EnvDBPath)
	_ = os.Unsetenv(EnvLogLevel)

	t.Setenv(EnvServerURL, "http://env:9000/api/")

	cfg, err := Load([]string{"--db", "from-flag.db", "login", "a@b.com"})
	require.NoError(t, err)

	assert.Equal(t, "http://env:9000/api", cfg.ServerURL, "env, trailing slash trimmed")
	assert.Equal(t, "from-flag.db", cfg.DBPath, "flag wins over .env")
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel, ".env used when nothing else is set")
	assert.Equal(t, []string{"login", "a@b.com"}, cfg.Args)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"--log-level", "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_Timeout(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTimeout, "5s")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	for _, bad := range []string{"soon", "0s", "-1s"} {
		_, err := Load([]string{"--timeout", bad})
		require.Error(t, err, bad)
	}
}

func TestLoad_UnknownFlag(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"--bogus"})
	require.Error(t, err)
}

func TestLoad_Version(t *testing.T) {
	isolate(t)

	cfg, err := Load([]string{"--version"})
	require.NoError(t, err)
	assert.True(t, cfg.ShowVersion)
	assert.Empty(t, cfg.Args)
}

func TestLoad_Passphrase(t *testing.T) {
	t.Run("env has priority over file", func(t *testing.T) {
		dir := isolate(t)
		file := filepath.Join(dir, "pass")
		require.NoError(t, os.WriteFile(file, []byte("from-file"), 0o600))
		t.Setenv(EnvPassphrase, "from-env")

		cfg, err := Load([]string{"--passphrase-file", file})
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Passphrase)
	})

	t.Run("file is trimmed", func(t *testing.T) {
		dir := isolate(t)
		file := filepath.Join(dir, "pass")
		require.NoError(t, os.WriteFile(file, []byte("  secret\n"), 0o600))

		cfg, err := Load([]string{"--passphrase-file", file})
		require.NoError(t, err)
		assert.Equal(t, "secret", cfg.Passphrase)
	})

	t.Run("empty file", func(t *testing.T) {
		dir := isolate(t)
		file := filepath.Join(dir, "pass")
		require.NoError(t, os.WriteFile(file, []byte("\n"), 0o600))

		_, err := Load([]string{"--passphrase-file", file})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is empty")
	})

	t.Run("missing file", func(t *testing.T) {
		dir := isolate(t)

		_, err := Load([]string{"--passphrase-file", filepath.Join(dir, "nope")})
		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelWarn, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "key=value")
}
