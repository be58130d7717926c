// Package session хранит общую HTTP-сессию хоста, которую переиспользуют все провайдеры TTS.
package session

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	sharedOnce   sync.Once
	sharedClient *http.Client
)

// Shared возвращает общий для процесса *http.Client с пулом соединений.
// Таймаута на уровне клиента нет: длительность запроса ограничивает контекст провайдера.
func Shared() *http.Client {
	sharedOnce.Do(func() {
		sharedClient = New(0, nil)
	})
	return sharedClient
}

// New создаёт отдельную сессию. timeout 0 — без ограничения на уровне клиента.
// Если logger не nil, каждый запрос и ответ пишутся в лог на уровне debug.
func New(timeout time.Duration, logger *zap.SugaredLogger) *http.Client {
	var rt http.RoundTripper = http.DefaultTransport.(*http.Transport).Clone()
	if logger != nil {
		rt = &loggingTransport{base: rt, logger: logger}
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// loggingTransport пишет метод, URL, статус и длительность запроса.
type loggingTransport struct {
	base   http.RoundTripper
	logger *zap.SugaredLogger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debugw("HTTP request", "method", req.Method, "url", req.URL.String())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debugw("HTTP request failed", "url", req.URL.String(), "error", err, "elapsed", time.Since(start).String())
		return resp, err
	}
	t.logger.Debugw("HTTP response", "url", req.URL.String(), "status", resp.StatusCode, "elapsed", time.Since(start).String())
	return resp, nil
}
