package main

import (
	"GHNaverTTS/internal/config"
	"GHNaverTTS/internal/metrics"
	"GHNaverTTS/internal/service/engine"
	"GHNaverTTS/internal/service/server"
	"GHNaverTTS/internal/service/session"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// HTTP-сервер синтеза: GET /api/tts?message=... отдаёт MP3 от выбранного движка.
func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap: в режиме дебага — development
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.DebugMode {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	httpClient := session.Shared()
	if cfg.DebugMode {
		httpClient = session.New(0, sugar.Named("http"))
	}

	provider, err := engine.New(cfg, httpClient, sugar, m)
	if err != nil {
		sugar.Errorw("failed to create tts engine", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, provider, reg, sugar.Named("server"))
	// Останавливаем сервер сами после сигнала, чтобы дождаться graceful shutdown
	if err := srv.Start(context.Background()); err != nil {
		sugar.Errorw("failed to start server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	if err := srv.Stop(context.WithoutCancel(ctx)); err != nil {
		sugar.Warnw("server stop error", "error", err)
	}
	sugar.Infow("server stopped")
}
