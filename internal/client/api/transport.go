package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Option настраивает Client
type Option func(*Client)

// WithLogger включает логирование запросов клиента
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.httpClient.Transport = &loggingTransport{
			next:   c.httpClient.Transport,
			logger: logger,
		}
	}
}

// WithTimeout задает таймаут одного запроса
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// loggingTransport логирует метод, путь, статус и время выполнения запроса.
// Тела запросов и заголовок Authorization не логируются.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	start := time.Now()
	resp, err := next.RoundTrip(req)
	duration := time.Since(start)

	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get(HeaderRequestID),
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		t.logger.Log(req.Context(), slog.LevelWarn, "HTTP request failed", append(attrs, "error", err)...)
		return nil, err
	}

	// Уровень логирования зависит от статуса
	level := slog.LevelDebug
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	} else if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	t.logger.Log(req.Context(), level, "HTTP request", append(attrs, "status", resp.StatusCode)...)

	return resp, nil
}
