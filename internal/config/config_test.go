package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, ServiceGHNaver, cfg.TTSService)
	assert.Empty(t, cfg.GHNaver.Host)
	assert.Equal(t, 30010, cfg.GHNaver.Port)
	assert.Equal(t, "ko", cfg.GHNaver.Language)
	assert.Equal(t, "dinna", cfg.GHNaver.Voice)
	assert.Equal(t, 0, cfg.GHNaver.Speed)
	assert.Equal(t, 60*time.Second, cfg.GHNaver.Timeout)
	assert.Equal(t, time.Second, cfg.GHNaver.RetryDelay)
	assert.False(t, cfg.GHNaver.SplitLongMessages)
}

func TestSupportedVoices(t *testing.T) {
	assert.Len(t, SupportedVoices, 15)
	assert.True(t, IsSupportedVoice("dinna"))
	assert.True(t, IsSupportedVoice("liangliang"))
	assert.False(t, IsSupportedVoice("Dinna"))
	assert.False(t, IsSupportedVoice(""))
	assert.True(t, IsSupportedLanguage("ko"))
	assert.False(t, IsSupportedLanguage("en"))
}

func TestGHNaverConfig_Validate(t *testing.T) {
	valid := func() GHNaverConfig {
		c := Defaults().GHNaver
		c.Host = "192.168.0.5"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *GHNaverConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*GHNaverConfig) {}},
		{name: "min speed", mutate: func(c *GHNaverConfig) { c.Speed = -10 }},
		{name: "max speed", mutate: func(c *GHNaverConfig) { c.Speed = 10 }},
		{name: "zero retry delay", mutate: func(c *GHNaverConfig) { c.RetryDelay = 0 }},
		{name: "missing host", mutate: func(c *GHNaverConfig) { c.Host = " " }, wantErr: "host is required"},
		{name: "port zero", mutate: func(c *GHNaverConfig) { c.Port = 0 }, wantErr: "port 0 out of range"},
		{name: "port too large", mutate: func(c *GHNaverConfig) { c.Port = 70000 }, wantErr: "port 70000 out of range"},
		{name: "language", mutate: func(c *GHNaverConfig) { c.Language = "ja" }, wantErr: `unsupported language "ja"`},
		{name: "voice", mutate: func(c *GHNaverConfig) { c.Voice = "alloy" }, wantErr: `unsupported voice "alloy"`},
		{name: "speed too low", mutate: func(c *GHNaverConfig) { c.Speed = -11 }, wantErr: "speed -11 out of range"},
		{name: "speed too high", mutate: func(c *GHNaverConfig) { c.Speed = 11 }, wantErr: "speed 11 out of range"},
		{name: "timeout", mutate: func(c *GHNaverConfig) { c.Timeout = 0 }, wantErr: "timeout must be positive"},
		{name: "negative retry delay", mutate: func(c *GHNaverConfig) { c.RetryDelay = -time.Second }, wantErr: "retry delay must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_Validate_Service(t *testing.T) {
	cfg := Defaults()
	cfg.TTSService = "polly"
	assert.ErrorContains(t, cfg.Validate(), `unknown tts service "polly"`)

	cfg.TTSService = ServiceGoogle
	assert.NoError(t, cfg.Validate(), "google does not need GH Naver host")

	cfg.GoogleTTS.Language = ""
	assert.ErrorContains(t, cfg.Validate(), "language is required")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GHNAVER_HOST", "tts.local")
	t.Setenv("GHNAVER_PORT", "8080")
	t.Setenv("GHNAVER_VOICE", "jinho")
	t.Setenv("GHNAVER_SPEED", "-4")
	t.Setenv("GHNAVER_TIMEOUT", "30s")
	t.Setenv("GHNAVER_RETRY_DELAY", "250ms")
	t.Setenv("GHNAVER_SPLIT_LONG_MESSAGES", "true")
	t.Setenv("DEBUG_MODE", "true")

	cfg, err := Load(newFlagSet(), nil)

	require.NoError(t, err)
	assert.True(t, cfg.DebugMode)
	assert.Equal(t, "tts.local", cfg.GHNaver.Host)
	assert.Equal(t, 8080, cfg.GHNaver.Port)
	assert.Equal(t, "jinho", cfg.GHNaver.Voice)
	assert.Equal(t, -4, cfg.GHNaver.Speed)
	assert.Equal(t, 30*time.Second, cfg.GHNaver.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.GHNaver.RetryDelay)
	assert.True(t, cfg.GHNaver.SplitLongMessages)
	assert.Equal(t, "ko", cfg.GHNaver.Language, "default kept")
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("GHNAVER_HOST", "from-env")
	t.Setenv("GHNAVER_VOICE", "jinho")

	cfg, err := Load(newFlagSet(), []string{"-ghnaver-host", "from-flag", "-ghnaver-speed", "7", "-tts-service", " GHNAVER "})

	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.GHNaver.Host)
	assert.Equal(t, "jinho", cfg.GHNaver.Voice)
	assert.Equal(t, 7, cfg.GHNaver.Speed)
	assert.Equal(t, ServiceGHNaver, cfg.TTSService)
}

func TestLoad_ExtraFlagsOnSameSet(t *testing.T) {
	fs := newFlagSet()
	text := fs.String("text", "", "")

	cfg, err := Load(fs, []string{"-ghnaver-host", "h", "-text", "안녕"})

	require.NoError(t, err)
	assert.Equal(t, "h", cfg.GHNaver.Host)
	assert.Equal(t, "안녕", *text)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "missing host", wantErr: "host is required"},
		{name: "speed out of range", args: []string{"-ghnaver-host", "h", "-ghnaver-speed", "20"}, wantErr: "speed 20 out of range"},
		{name: "unknown voice", args: []string{"-ghnaver-host", "h", "-ghnaver-voice", "bob"}, wantErr: `unsupported voice "bob"`},
		{name: "bad env value", env: map[string]string{"GHNAVER_PORT": "not-a-number"}, wantErr: "parse env"},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GHNAVER_HOST", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(newFlagSet(), tt.args)

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
