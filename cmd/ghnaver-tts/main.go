package main

import (
	"GHNaverTTS/internal/config"
	"GHNaverTTS/internal/service/engine"
	"GHNaverTTS/internal/service/session"
	"GHNaverTTS/internal/service/tts"
	"GHNaverTTS/internal/service/tts/player"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
)

// Утилита для синтеза речи через выбранный движок (по умолчанию GH Naver).
// Результат сохраняется в файл или сразу воспроизводится.
func main() {
	var (
		text string
		out  string
		play bool
	)
	flag.StringVar(&text, "text", "안녕하세요. 오늘도 좋은 하루 보내세요.", "Текст для синтеза речи")
	flag.StringVar(&out, "out", "speech.mp3", "Имя выходного файла")
	flag.BoolVar(&play, "play", false, "Сразу воспроизвести результат без сохранения файла")

	// NewConfig разбирает flag.CommandLine вместе с флагами утилиты
	cfg := config.NewConfig()

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := session.Shared()
	if cfg.DebugMode {
		httpClient = session.New(0, sugar.Named("http"))
	}

	provider, err := engine.New(cfg, httpClient, sugar, nil)
	if err != nil {
		sugar.Errorw("failed to create tts engine", "error", err)
		os.Exit(1)
	}

	format, audio := provider.GetTTSAudio(ctx, text, provider.DefaultLanguage(), nil)
	if tts.Failed(format, audio) {
		fmt.Println("Синтез не удался, подробности в логе")
		os.Exit(1)
	}
	sugar.Infow("speech synthesized", "engine", provider.Name(), "format", format, "bytes", len(audio))

	if play {
		if err := player.PlayBytes(player.New(), format, audio); err != nil {
			sugar.Errorw("playback failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if filepath.Ext(out) == "" {
		out += "." + format
	}
	if err := os.WriteFile(out, audio, 0o644); err != nil {
		sugar.Errorw("failed to write audio file", "path", out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Аудио сохранено в %s (%d байт)\n", out, len(audio))
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
