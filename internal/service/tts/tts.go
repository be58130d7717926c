package tts

import (
	"context"
	"net/http"
)

// FormatMP3 — единственный формат, который отдают провайдеры.
const FormatMP3 = "mp3"

// Provider абстракция движка TTS, которую вызывает хост.
// GetTTSAudio возвращает формат и аудио, либо пару ("", nil), если синтез не удался.
// Причина неудачи попадает только в лог провайдера.
type Provider interface {
	Name() string
	DefaultLanguage() string
	SupportedLanguages() []string
	// SupportedOptions — ключи options, которые провайдер учитывает.
	SupportedOptions() []string
	GetTTSAudio(ctx context.Context, message, language string, options map[string]any) (string, []byte)
}

// HTTPClient — общая HTTP-сессия хоста. Провайдер её не создаёт и не закрывает.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Failed сообщает, является ли результат GetTTSAudio неудачей.
func Failed(format string, audio []byte) bool {
	return format == "" || audio == nil
}
