package google

import (
	"GHNaverTTS/internal/config"
	"context"
	"errors"
	"testing"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpeechClient struct {
	resp   *ttspb.SynthesizeSpeechResponse
	err    error
	req    *ttspb.SynthesizeSpeechRequest
	closed bool
}

func (f *fakeSpeechClient) SynthesizeSpeech(_ context.Context, req *ttspb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*ttspb.SynthesizeSpeechResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeSpeechClient) Close() error {
	f.closed = true
	return nil
}

func newTestClient(fake *fakeSpeechClient) *Client {
	c := New(config.Defaults().GoogleTTS, nil)
	c.newClient = func(context.Context) (speechClient, error) { return fake, nil }
	return c
}

func TestClient_GetTTSAudio_Success(t *testing.T) {
	fake := &fakeSpeechClient{resp: &ttspb.SynthesizeSpeechResponse{AudioContent: []byte("mp3 bytes")}}
	c := newTestClient(fake)

	format, data := c.GetTTSAudio(context.Background(), "안녕하세요", "ko-KR", nil)

	assert.Equal(t, "mp3", format)
	assert.Equal(t, []byte("mp3 bytes"), data)
	assert.True(t, fake.closed)

	require.NotNil(t, fake.req)
	assert.Equal(t, "안녕하세요", fake.req.GetInput().GetText())
	assert.Equal(t, "ko-KR", fake.req.GetVoice().GetLanguageCode())
	assert.Equal(t, ttspb.AudioEncoding_MP3, fake.req.GetAudioConfig().GetAudioEncoding())
	assert.Equal(t, []string{"small-bluetooth-speaker-class-device"}, fake.req.GetAudioConfig().GetEffectsProfileId())
}

func TestClient_GetTTSAudio_Failures(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeSpeechClient
		text string
	}{
		{name: "api error", fake: &fakeSpeechClient{err: errors.New("permission denied")}, text: "x"},
		{name: "empty audio", fake: &fakeSpeechClient{resp: &ttspb.SynthesizeSpeechResponse{}}, text: "x"},
		{name: "empty text", fake: &fakeSpeechClient{}, text: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, data := newTestClient(tt.fake).GetTTSAudio(context.Background(), tt.text, "", nil)
			assert.Empty(t, format)
			assert.Nil(t, data)
		})
	}
}

func TestClient_BuildRequest_SSMLDetection(t *testing.T) {
	c := New(config.Defaults().GoogleTTS, nil)

	req := c.buildRequest("<speak>안녕</speak>")
	assert.Equal(t, "<speak>안녕</speak>", req.GetInput().GetSsml())

	c.cfg.InputType = "text"
	req = c.buildRequest("<speak>안녕</speak>")
	assert.Equal(t, "<speak>안녕</speak>", req.GetInput().GetText())
}

func TestClient_Accessors(t *testing.T) {
	c := New(config.Defaults().GoogleTTS, nil)

	assert.Equal(t, "google", c.Name())
	assert.Equal(t, "ko-KR", c.DefaultLanguage())
	assert.Equal(t, []string{"ko-KR"}, c.SupportedLanguages())
	assert.Empty(t, c.SupportedOptions())
}
