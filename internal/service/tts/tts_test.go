package tts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailed(t *testing.T) {
	assert.True(t, Failed("", nil))
	assert.True(t, Failed("mp3", nil))
	assert.True(t, Failed("", []byte("x")))
	assert.False(t, Failed("mp3", []byte{}))
	assert.False(t, Failed(FormatMP3, []byte("x")))
}

func TestStatusError(t *testing.T) {
	var err error = &StatusError{Code: 404, URL: "http://h:1/googleHome/api/naverTTS/x"}

	assert.Equal(t, "tts: status 404 on load URL http://h:1/googleHome/api/naverTTS/x", err.Error())

	var se *StatusError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, 404, se.Code)
}
