package server

import (
	"GHNaverTTS/internal/config"
	"GHNaverTTS/internal/service/tts"
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server — хост для движка TTS: принимает GET с текстом и отдаёт MP3.
// Неудачный синтез отдаётся как 502 с пустым телом.
type Server struct {
	cfg      config.ServerConfig
	provider tts.Provider
	srv      *http.Server
	logger   *zap.SugaredLogger
	running  atomic.Bool
}

// New создаёт сервер. gatherer — источник метрик для cfg.MetricsPath; nil отключает метрики.
func New(cfg config.ServerConfig, provider tts.Provider, gatherer prometheus.Gatherer, logger *zap.SugaredLogger) *Server {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "127.0.0.1:8090"
	}
	if cfg.Path == "" {
		cfg.Path = "/api/tts"
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{cfg: cfg, provider: provider, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, s.handleSynthesize)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if gatherer != nil && cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.srv = &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Синтез может занять до таймаута провайдера (60s) плюс запас на запись
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start запускает сервер в отдельной горутине и немедленно возвращается.
// Отмена ctx останавливает сервер.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	go func() {
		s.logger.Infow("TTS server listening", "addr", s.srv.Addr, "path", s.cfg.Path, "engine", s.provider.Name())
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("TTS server stopped with error", "error", err)
		} else {
			s.logger.Infow("TTS server stopped")
		}
	}()

	if ctx.Done() == nil {
		return nil
	}
	// Watch for context cancellation to stop the server
	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("tts-server shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

func (s *Server) Addr() string { return s.cfg.BindAddr }

// Handler возвращает маршрутизатор сервера (для тестов и встраивания).
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed; use GET", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	message := q.Get("message")
	if strings.TrimSpace(message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	language := q.Get("language")
	if language == "" {
		language = s.provider.DefaultLanguage()
	}
	if !slices.Contains(s.provider.SupportedLanguages(), language) {
		http.Error(w, "unsupported language: "+language, http.StatusBadRequest)
		return
	}

	// Опции провайдера приходят строками; провайдер сам приводит типы и отбрасывает лишнее
	var options map[string]any
	for _, key := range s.provider.SupportedOptions() {
		if v := q.Get(key); v != "" {
			if options == nil {
				options = make(map[string]any)
			}
			options[key] = v
		}
	}

	format, audio := s.provider.GetTTSAudio(r.Context(), message, language, options)
	if tts.Failed(format, audio) {
		s.logger.Warnw("synthesis failed", "remote", r.RemoteAddr, "chars", len([]rune(message)))
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		s.logger.Warnw("failed to write audio", "error", err)
	}
}

func contentType(format string) string {
	switch strings.ToLower(format) {
	case tts.FormatMP3:
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
