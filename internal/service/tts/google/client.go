package google

import (
	"GHNaverTTS/internal/config"
	"GHNaverTTS/internal/service/tts"
	"context"
	"errors"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
)

// Ensure interface compliance
var _ tts.Provider = (*Client)(nil)

// speechClient — часть SDK-клиента, которая нужна провайдеру. Подменяется в тестах.
type speechClient interface {
	SynthesizeSpeech(ctx context.Context, req *ttspb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*ttspb.SynthesizeSpeechResponse, error)
	Close() error
}

// Client реализует синтез речи через Google Cloud Text-to-Speech и возвращает MP3.
type Client struct {
	cfg       config.GoogleTTSConfig
	logger    *zap.SugaredLogger
	newClient func(ctx context.Context) (speechClient, error)
}

func New(cfg config.GoogleTTSConfig, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		newClient: func(ctx context.Context) (speechClient, error) {
			return gctts.NewClient(ctx)
		},
	}
}

func (c *Client) Name() string { return config.ServiceGoogle }

func (c *Client) DefaultLanguage() string { return c.cfg.Language }

func (c *Client) SupportedLanguages() []string { return []string{c.cfg.Language} }

// SupportedOptions — Google-движок параметров на вызов не принимает.
func (c *Client) SupportedOptions() []string { return nil }

// GetTTSAudio выполняет запрос к Google TTS. При ошибке возвращает ("", nil) и пишет лог.
func (c *Client) GetTTSAudio(ctx context.Context, message, _ string, _ map[string]any) (string, []byte) {
	audio, err := c.synthesize(ctx, message)
	if err != nil {
		c.logger.Errorw("Google TTS synthesize failed", "error", err)
		return "", nil
	}
	return tts.FormatMP3, audio
}

func (c *Client) synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, tts.ErrEmptyText
	}

	// Создаём клиента SDK
	ttsClient, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer ttsClient.Close()

	started := time.Now()
	resp, err := ttsClient.SynthesizeSpeech(ctx, c.buildRequest(text))
	if err != nil {
		return nil, err
	}
	c.logger.Infow("Google TTS synthesize completed", "took", time.Since(started).String())

	audio := resp.GetAudioContent()
	if len(audio) == 0 {
		return nil, errors.New("google tts: empty audio content")
	}
	return audio, nil
}

func (c *Client) buildRequest(text string) *ttspb.SynthesizeSpeechRequest {
	// Определяем тип входа (text|ssml); пусто — по наличию <speak>
	var input *ttspb.SynthesisInput
	it := strings.ToLower(strings.TrimSpace(c.cfg.InputType))
	if it == "ssml" || (it == "" && strings.HasPrefix(strings.TrimSpace(text), "<speak>")) {
		input = &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Ssml{Ssml: text}}
	} else {
		input = &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}}
	}

	voice := &ttspb.VoiceSelectionParams{
		LanguageCode: c.cfg.Language,
		Name:         c.cfg.Voice,
	}

	// Только MP3
	audio := &ttspb.AudioConfig{
		AudioEncoding: ttspb.AudioEncoding_MP3,
		SpeakingRate:  c.cfg.SpeakingRate,
		Pitch:         c.cfg.Pitch,
		VolumeGainDb:  c.cfg.VolumeGainDb,
	}
	if ep := strings.TrimSpace(c.cfg.EffectsProfileID); ep != "" {
		audio.EffectsProfileId = []string{ep}
	}

	return &ttspb.SynthesizeSpeechRequest{Input: input, Voice: voice, AudioConfig: audio}
}
