// Package config собирает настройки клиента из флагов, переменных окружения и .env файла.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerURL = "http://localhost:8000/api"
	DefaultDBPath    = "geotaste-client.db"
	DefaultTimeout   = 30 * time.Second
)

// Переменные окружения
const (
	EnvServerURL  = "GEOTASTE_SERVER"
	EnvDBPath     = "GEOTASTE_DB"
	EnvLogLevel   = "GEOTASTE_LOG_LEVEL"
	EnvTimeout    = "GEOTASTE_TIMEOUT"
	EnvPassphrase = "GEOTASTE_STORAGE_PASSPHRASE"
	EnvFile       = "GEOTASTE_ENV_FILE"
)

// Config содержит настройки клиента
type Config struct {
	ServerURL  string
	DBPath     string
	Passphrase string
	Args       []string // команда и ее аргументы
	Timeout    time.Duration
	LogLevel   slog.Level

	ShowVersion bool
}

// Load разбирает аргументы командной строки (без имени программы).
// Приоритет: флаг > переменная окружения > .env > значение по умолчанию.
func Load(args []string) (*Config, error) {
	envFile := os.Getenv(EnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv не перезаписывает уже заданные переменные окружения
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{}

	flags := flag.NewFlagSet("geotaste", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.ServerURL, "server", getEnv(EnvServerURL, DefaultServerURL), "API base URL")
	flags.StringVar(&cfg.DBPath, "db", getEnv(EnvDBPath, DefaultDBPath), "path to local storage file")
	logLevel := flags.String("log-level", getEnv(EnvLogLevel, "warn"), "log level: debug, info, warn, error")
	timeout := flags.String("timeout", getEnv(EnvTimeout, DefaultTimeout.String()), "HTTP request timeout")
	passphraseFile := flags.String("passphrase-file", "", "file with the local storage passphrase")
	flags.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", *logLevel, err)
	}

	d, err := time.ParseDuration(*timeout)
	if err != nil || d <= 0 {
		return nil, fmt.Errorf("invalid timeout %q", *timeout)
	}
	cfg.Timeout = d

	passphrase, err := loadPassphrase(*passphraseFile)
	if err != nil {
		return nil, err
	}
	cfg.Passphrase = passphrase
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	cfg.Args = flags.Args()

	return cfg, nil
}

// loadPassphrase: сначала переменная окружения, затем файл.
// Пустая строка означает, что локальное хранилище не шифруется.
func loadPassphrase(file string) (string, error) {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p, nil
	}
	if file == "" {
		return "", nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase file: %w", err)
	}
	p := strings.TrimSpace(string(data))
	if p == "" {
		return "", fmt.Errorf("passphrase file %s is empty", file)
	}
	return p, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// NewLogger создает текстовый логгер. Логи пишутся в w (обычно stderr),
// чтобы не смешиваться с выводом команд.
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
