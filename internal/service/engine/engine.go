package engine

import (
	"GHNaverTTS/internal/config"
	"GHNaverTTS/internal/metrics"
	"GHNaverTTS/internal/service/tts"
	"GHNaverTTS/internal/service/tts/ghnaver"
	"GHNaverTTS/internal/service/tts/google"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New выбирает движок TTS по cfg.TTSService и создаёт его.
// session — общая HTTP-сессия хоста; m может быть nil.
func New(cfg *config.Config, session tts.HTTPClient, logger *zap.SugaredLogger, m *metrics.Metrics) (tts.Provider, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	service := strings.ToLower(strings.TrimSpace(cfg.TTSService))
	switch service {
	case config.ServiceGHNaver, "naver", "":
		if err := cfg.GHNaver.Validate(); err != nil {
			return nil, err
		}
		logger.Infow("TTS engine: GH Naver",
			"host", cfg.GHNaver.Host,
			"port", cfg.GHNaver.Port,
			"voice", cfg.GHNaver.Voice,
			"speed", cfg.GHNaver.Speed,
		)
		return ghnaver.New(cfg.GHNaver, session, logger.Named("ghnaver"), ghnaver.WithMetrics(m)), nil
	case config.ServiceGoogle, "gcloud":
		logger.Infow("TTS engine: Google", "language", cfg.GoogleTTS.Language, "voice", cfg.GoogleTTS.Voice)
		return google.New(cfg.GoogleTTS, logger.Named("google")), nil
	default:
		return nil, fmt.Errorf("engine: unknown tts service %q", cfg.TTSService)
	}
}
