package ghnaver

import (
	"GHNaverTTS/internal/config"
	"GHNaverTTS/internal/metrics"
	"GHNaverTTS/internal/service/tts"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// speechPath — путь GH Naver, к которому дописывается закодированный текст.
const speechPath = "/googleHome/api/naverTTS/"

// Ключи options, которые перекрывают конфигурацию на один вызов.
const (
	OptionVoice = "voice"
	OptionSpeed = "speed"
)

// Ensure interface compliance
var _ tts.Provider = (*Provider)(nil)

// Provider синтезирует речь через удалённый сервис GH Naver одним GET-запросом.
// Конфигурация фиксируется при создании, поэтому один Provider безопасно вызывать конкурентно.
type Provider struct {
	cfg     config.GHNaverConfig
	session tts.HTTPClient
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

// Option настраивает Provider.
type Option func(*Provider)

// WithMetrics включает учёт запросов в Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Provider) {
		p.metrics = m
	}
}

// New создаёт провайдер. session — общая HTTP-сессия хоста; nil означает http.DefaultClient.
func New(cfg config.GHNaverConfig, session tts.HTTPClient, logger *zap.SugaredLogger, opts ...Option) *Provider {
	if session == nil {
		session = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	p := &Provider{cfg: cfg, session: session, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string { return config.ServiceGHNaver }

// DefaultLanguage язык провайдера. Всегда ko, независимо от конфигурации.
func (p *Provider) DefaultLanguage() string { return config.DefaultGHNaverLanguage }

func (p *Provider) SupportedLanguages() []string {
	return append([]string(nil), config.SupportedLanguages...)
}

func (p *Provider) SupportedOptions() []string { return []string{OptionVoice, OptionSpeed} }

// GetTTSAudio синтезирует message и возвращает ("mp3", аудио).
// При любой ошибке возвращает ("", nil) и пишет причину в лог.
// Язык сервис не принимает: он определяется голосом.
func (p *Provider) GetTTSAudio(ctx context.Context, message, language string, options map[string]any) (string, []byte) {
	if language != "" && !config.IsSupportedLanguage(language) {
		p.logger.Warnw("GH Naver: language is not supported, using voice language", "language", language)
	}

	started := time.Now()
	audio, err := p.synthesize(ctx, message, options)
	p.metrics.ObserveSynthesis(err == nil, time.Since(started))
	if err != nil {
		p.logError(err)
		return "", nil
	}
	return tts.FormatMP3, audio
}

// synthesize выполняет синтез и возвращает ошибку вместо пустой пары.
// Один таймаут покрывает все попытки, паузу перед повтором и все части сообщения.
func (p *Provider) synthesize(ctx context.Context, message string, options map[string]any) ([]byte, error) {
	if strings.TrimSpace(message) == "" {
		return nil, tts.ErrEmptyText
	}
	voice, speed := p.params(options)

	parts := []string{message}
	if p.cfg.SplitLongMessages {
		parts = SplitMessage(message)
		if len(parts) == 0 {
			return nil, tts.ErrEmptyText
		}
	}

	ctx, cancel := context.WithTimeoutCause(ctx, p.cfg.Timeout, errors.New("ghnaver synthesis timeout"))
	defer cancel()

	audio := make([]byte, 0)
	for idx, part := range parts {
		u := p.speechURL(part, voice, speed)
		p.logger.Debugw("GH Naver URL", "url", u, "part", idx, "parts", len(parts))

		data, err := p.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

// fetch делает GET и один повтор, если сервис ответил 500.
func (p *Provider) fetch(ctx context.Context, u string) ([]byte, error) {
	resp, err := p.get(ctx, u)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusInternalServerError {
		discard(resp)
		p.logger.Warnw("GH Naver returned 500, retrying once", "url", u, "delay", p.cfg.RetryDelay.String())
		p.metrics.ObserveRetry()
		if err := wait(ctx, p.cfg.RetryDelay); err != nil {
			return nil, err
		}
		resp, err = p.get(ctx, u)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &tts.StatusError{Code: resp.StatusCode, URL: u}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, err)
	}
	return data, nil
}

func (p *Provider) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("ghnaver: create request: %w", err)
	}
	resp, err := p.session.Do(req)
	if err != nil {
		p.metrics.ObserveRequest(0)
		return nil, classify(ctx, err)
	}
	p.metrics.ObserveRequest(resp.StatusCode)
	return resp, nil
}

// speechURL собирает http://host:port/googleHome/api/naverTTS/<текст>?speed=..&voice=..
// Текст кодируется как сегмент пути, а не как параметр запроса.
func (p *Provider) speechURL(message, voice string, speed int) string {
	q := url.Values{}
	q.Set("voice", voice)
	q.Set("speed", strconv.Itoa(speed))

	hostPort := net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))
	return "http://" + hostPort + speechPath + url.PathEscape(message) + "?" + q.Encode()
}

// params возвращает голос и скорость с учётом options. Некорректные значения игнорируются.
func (p *Provider) params(options map[string]any) (string, int) {
	voice, speed := p.cfg.Voice, p.cfg.Speed

	if v, ok := options[OptionVoice]; ok {
		if s, ok := v.(string); ok && config.IsSupportedVoice(s) {
			voice = s
		} else {
			p.logger.Warnw("GH Naver: ignoring unsupported voice option", "voice", v)
		}
	}
	if v, ok := options[OptionSpeed]; ok {
		if n, ok := toInt(v); ok && n >= config.MinGHNaverSpeed && n <= config.MaxGHNaverSpeed {
			speed = n
		} else {
			p.logger.Warnw("GH Naver: ignoring invalid speed option", "speed", v)
		}
	}
	return voice, speed
}

func (p *Provider) logError(err error) {
	var se *tts.StatusError
	switch {
	case errors.As(err, &se):
		p.logger.Errorw("GH Naver: error on load URL", "status", se.Code, "url", se.URL)
	case errors.Is(err, tts.ErrTimeout):
		p.logger.Errorw("GH Naver: timeout for speech", "timeout", p.cfg.Timeout.String(), "error", err)
	case errors.Is(err, tts.ErrEmptyText):
		p.logger.Warnw("GH Naver: empty message, nothing to synthesize")
	default:
		p.logger.Errorw("GH Naver: request failed", "error", err)
	}
}

// wait ждёт d, не блокируя отмену контекста.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return classify(ctx, context.Cause(ctx))
	}
}

// classify относит ошибку к таймауту или к транспортной ошибке.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", tts.ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w", tts.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", tts.ErrTransport, err)
}

// discard вычитывает и закрывает тело, чтобы соединение вернулось в пул.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}
