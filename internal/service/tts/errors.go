package tts

import (
	"errors"
	"fmt"
)

// Ошибки синтеза. Наружу хосту не отдаются, используются внутри провайдеров и в логах.
var (
	ErrEmptyText = errors.New("tts: text cannot be empty")
	ErrTimeout   = errors.New("tts: timeout")
	ErrTransport = errors.New("tts: transport error")
)

// StatusError — удалённый сервис ответил статусом, отличным от 200.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tts: status %d on load URL %s", e.Code, e.URL)
}
