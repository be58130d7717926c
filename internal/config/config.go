package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Сервисы TTS, между которыми переключается TTS_SERVICE.
const (
	ServiceGHNaver = "ghnaver"
	ServiceGoogle  = "google"
)

// Ограничения и значения по умолчанию для GH Naver.
const (
	DefaultGHNaverPort     = 30010
	DefaultGHNaverLanguage = "ko"
	DefaultGHNaverVoice    = "dinna"
	DefaultGHNaverSpeed    = 0

	MinGHNaverSpeed = -10
	MaxGHNaverSpeed = 10
)

// SupportedLanguages — языки, которые принимает GH Naver. Сейчас только корейский.
var SupportedLanguages = []string{"ko"}

// SupportedVoices — голоса Naver, доступные через GH Naver.
var SupportedVoices = []string{
	"nara", "kyuri", "jinho", "mijin", "clara", "matt", "yuri", "shinji",
	"meimei", "liangliang", "jose", "carmen", "dsangjin", "djiyun", "dinna",
}

type Config struct {
	DebugMode  bool   `env:"DEBUG_MODE"`  //Режим дебага
	TTSService string `env:"TTS_SERVICE"` // ghnaver|google, по умолчанию ghnaver

	GHNaver   GHNaverConfig   // Удалённый сервис GH Naver (googleHome/api/naverTTS)
	GoogleTTS GoogleTTSConfig // Запасной движок Google Cloud Text-to-Speech
	Server    ServerConfig    // HTTP-сервер, отдающий синтезированное аудио
}

// GHNaverConfig конфигурация провайдера GH Naver. После создания провайдера не меняется.
type GHNaverConfig struct {
	Host     string `env:"GHNAVER_HOST"`     // Хост сервиса, обязателен
	Port     int    `env:"GHNAVER_PORT"`     // Порт, по умолчанию 30010
	Language string `env:"GHNAVER_LANGUAGE"` // Язык, поддерживается только ko
	Voice    string `env:"GHNAVER_VOICE"`    // Голос из SupportedVoices, по умолчанию dinna
	Speed    int    `env:"GHNAVER_SPEED"`    // Скорость речи от -10 до 10

	Timeout    time.Duration `env:"GHNAVER_TIMEOUT"`     // Общий таймаут синтеза, включая повтор
	RetryDelay time.Duration `env:"GHNAVER_RETRY_DELAY"` // Пауза перед повтором после HTTP 500
	// Делить длинные сообщения на части по 148 символов и синтезировать по очереди
	SplitLongMessages bool `env:"GHNAVER_SPLIT_LONG_MESSAGES"`
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Путь к файлу ключа сервисного аккаунта. Фактически читается из ENV GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsPath string  `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language        string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice           string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate    float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch           float64 `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb    float64 `env:"GOOGLE_TTS_VOLUME_DB"`
	// Эффект профиля устройства воспроизведения, напр. large-home-entertainment-class-device
	EffectsProfileID string `env:"GOOGLE_TTS_EFFECTS_PROFILE_ID"`
	// Тип входа: text|ssml. Пусто — auto (по наличию тега <speak> в тексте).
	InputType string `env:"GOOGLE_TTS_INPUT_TYPE"`
}

// ServerConfig конфигурация HTTP-сервера синтеза.
type ServerConfig struct {
	BindAddr    string `env:"SERVER_BIND_ADDR"`    // Адрес слушателя, напр. 127.0.0.1:8090
	Path        string `env:"SERVER_PATH"`         // HTTP-путь синтеза, напр. /api/tts
	MetricsPath string `env:"SERVER_METRICS_PATH"` // Путь метрик Prometheus, пусто — метрики не отдаются
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:  false,
		TTSService: ServiceGHNaver,
		GHNaver: GHNaverConfig{
			Port:       DefaultGHNaverPort,
			Language:   DefaultGHNaverLanguage,
			Voice:      DefaultGHNaverVoice,
			Speed:      DefaultGHNaverSpeed,
			Timeout:    60 * time.Second,
			RetryDelay: time.Second,
		},
		GoogleTTS: GoogleTTSConfig{
			CredentialsPath:  "service-account.json",
			Language:         "ko-KR",
			Voice:            "ko-KR-Standard-A",
			SpeakingRate:     1.0,
			EffectsProfileID: "small-bluetooth-speaker-class-device",
		},
		Server: ServerConfig{
			BindAddr:    "127.0.0.1:8090",
			Path:        "/api/tts",
			MetricsPath: "/metrics",
		},
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и флагов командной строки.
// Некорректная конфигурация — повод не стартовать, поэтому здесь паника.
func NewConfig() *Config {
	cfg, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load регистрирует флаги конфигурации в fs, разбирает args и валидирует результат.
// Утилиты могут заранее добавить в fs собственные флаги.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	_ = godotenv.Load()

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.StringVar(&cfg.TTSService, "tts-service", cfg.TTSService, "выбор сервиса TTS: ghnaver|google")
	// Параметры GH Naver
	fs.StringVar(&cfg.GHNaver.Host, "ghnaver-host", cfg.GHNaver.Host, "хост сервиса GH Naver")
	fs.IntVar(&cfg.GHNaver.Port, "ghnaver-port", cfg.GHNaver.Port, "порт сервиса GH Naver")
	fs.StringVar(&cfg.GHNaver.Language, "ghnaver-language", cfg.GHNaver.Language, "язык синтеза (только ko)")
	fs.StringVar(&cfg.GHNaver.Voice, "ghnaver-voice", cfg.GHNaver.Voice, "голос: "+strings.Join(SupportedVoices, ", "))
	fs.IntVar(&cfg.GHNaver.Speed, "ghnaver-speed", cfg.GHNaver.Speed, "скорость речи от -10 до 10")
	fs.DurationVar(&cfg.GHNaver.Timeout, "ghnaver-timeout", cfg.GHNaver.Timeout, "общий таймаут синтеза, напр. 60s")
	fs.DurationVar(&cfg.GHNaver.RetryDelay, "ghnaver-retry-delay", cfg.GHNaver.RetryDelay, "пауза перед повтором после HTTP 500, напр. 1s")
	fs.BoolVar(&cfg.GHNaver.SplitLongMessages, "ghnaver-split-long-messages", cfg.GHNaver.SplitLongMessages, "делить длинные сообщения на части")
	// Параметры Google TTS
	fs.StringVar(&cfg.GoogleTTS.CredentialsPath, "google-tts-credentials", cfg.GoogleTTS.CredentialsPath, "путь к service-account.json (также читается из ENV GOOGLE_APPLICATION_CREDENTIALS)")
	fs.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "язык синтеза, напр. ko-KR")
	fs.StringVar(&cfg.GoogleTTS.Voice, "google-tts-voice", cfg.GoogleTTS.Voice, "имя голоса, напр. ko-KR-Standard-A")
	fs.Float64Var(&cfg.GoogleTTS.SpeakingRate, "google-tts-speaking-rate", cfg.GoogleTTS.SpeakingRate, "скорость речи (1.0 по умолчанию)")
	fs.Float64Var(&cfg.GoogleTTS.Pitch, "google-tts-pitch", cfg.GoogleTTS.Pitch, "тон (полутоны), может быть отрицательным")
	fs.Float64Var(&cfg.GoogleTTS.VolumeGainDb, "google-tts-volume-db", cfg.GoogleTTS.VolumeGainDb, "усиление громкости (дБ), допустимо от -96.0 до +16.0")
	fs.StringVar(&cfg.GoogleTTS.EffectsProfileID, "google-tts-effects-profile-id", cfg.GoogleTTS.EffectsProfileID, "EffectsProfileId")
	fs.StringVar(&cfg.GoogleTTS.InputType, "google-tts-input-type", cfg.GoogleTTS.InputType, "тип входа: text|ssml; пусто = авто по наличию <speak>")
	// Сервер
	fs.StringVar(&cfg.Server.BindAddr, "server-bind-addr", cfg.Server.BindAddr, "адрес HTTP-сервера синтеза")
	fs.StringVar(&cfg.Server.Path, "server-path", cfg.Server.Path, "HTTP-путь синтеза")
	fs.StringVar(&cfg.Server.MetricsPath, "server-metrics-path", cfg.Server.MetricsPath, "путь метрик Prometheus, пусто — отключить")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.TTSService = strings.ToLower(strings.TrimSpace(cfg.TTSService))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Для Google: если ENV пуст, но в конфиге указан путь — устанавливаем ENV.
	if cfg.TTSService == ServiceGoogle && strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")) == "" {
		if cp := strings.TrimSpace(cfg.GoogleTTS.CredentialsPath); cp != "" {
			_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cp)
		}
	}
	return cfg, nil
}

// Validate проверяет конфигурацию выбранного сервиса.
func (c *Config) Validate() error {
	switch c.TTSService {
	case ServiceGHNaver, "":
		return c.GHNaver.Validate()
	case ServiceGoogle:
		if strings.TrimSpace(c.GoogleTTS.Language) == "" {
			return errors.New("google tts: language is required")
		}
		return nil
	default:
		return fmt.Errorf("config: unknown tts service %q (want ghnaver|google)", c.TTSService)
	}
}

// Validate проверяет параметры GH Naver по тем же правилам, что и схема платформы.
func (c GHNaverConfig) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return errors.New("ghnaver: host is required (set GHNAVER_HOST or -ghnaver-host)")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("ghnaver: port %d out of range 1..65535", c.Port)
	}
	if !IsSupportedLanguage(c.Language) {
		return fmt.Errorf("ghnaver: unsupported language %q", c.Language)
	}
	if !IsSupportedVoice(c.Voice) {
		return fmt.Errorf("ghnaver: unsupported voice %q", c.Voice)
	}
	if c.Speed < MinGHNaverSpeed || c.Speed > MaxGHNaverSpeed {
		return fmt.Errorf("ghnaver: speed %d out of range %d..%d", c.Speed, MinGHNaverSpeed, MaxGHNaverSpeed)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("ghnaver: timeout must be positive, got %s", c.Timeout)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("ghnaver: retry delay must not be negative, got %s", c.RetryDelay)
	}
	return nil
}

// IsSupportedVoice сообщает, есть ли голос в списке SupportedVoices.
func IsSupportedVoice(voice string) bool { return slices.Contains(SupportedVoices, voice) }

// IsSupportedLanguage сообщает, есть ли язык в списке SupportedLanguages.
func IsSupportedLanguage(lang string) bool { return slices.Contains(SupportedLanguages, lang) }
