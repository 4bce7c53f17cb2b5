package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.LLMProvider != ProviderGroq || s.LLMModel != "mixtral-8x7b-32768" {
		t.Errorf("llm = %s/%s", s.LLMProvider, s.LLMModel)
	}
	if s.LLMTemperature != 0.7 || s.LLMMaxTokens != 1024 {
		t.Errorf("temperature = %v, max tokens = %d", s.LLMTemperature, s.LLMMaxTokens)
	}
	if s.RecordSeconds != 7 || s.SampleRate != 44100 {
		t.Errorf("record = %ds at %d Hz", s.RecordSeconds, s.SampleRate)
	}
	if s.ListenAttempts != 0 || s.SelectionAttempts != 0 {
		t.Errorf("attempt limits = %d, %d, want unbounded", s.ListenAttempts, s.SelectionAttempts)
	}
	if s.STTProvider != ProviderWhisper || s.STTModel != "whisper-1" {
		t.Errorf("stt = %s/%s", s.STTProvider, s.STTModel)
	}
	if s.EmptyAnswerPolicy != "proceed" || s.TopicParsing != "strict" {
		t.Errorf("policies = %s, %s", s.EmptyAnswerPolicy, s.TopicParsing)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("LLM_PROVIDER", "Groq")
	t.Setenv("RECORD_SECONDS", "5")

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.RecordSeconds != 5 {
		t.Errorf("record seconds = %d, want 5", s.RecordSeconds)
	}
	key, err := s.CompletionKey()
	if err != nil || key != "gsk-test" {
		t.Errorf("CompletionKey() = %q, %v", key, err)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  error
		wantKey  string
	}{
		{"groq", Settings{LLMProvider: ProviderGroq, GroqAPIKey: "g"}, nil, "g"},
		{"openai", Settings{LLMProvider: ProviderOpenAI, OpenAIAPIKey: "o"}, nil, "o"},
		{"gemini", Settings{LLMProvider: ProviderGemini, GeminiAPIKey: "m"}, nil, "m"},
		{"missing", Settings{LLMProvider: ProviderGroq, OpenAIAPIKey: "o"}, ErrMissingKey, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := tt.settings.CompletionKey()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CompletionKey() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || key != tt.wantKey {
				t.Errorf("CompletionKey() = %q, %v", key, err)
			}
		})
	}

	s := Settings{LLMProvider: "claude"}
	if _, err := s.CompletionKey(); err == nil || errors.Is(err, ErrMissingKey) {
		t.Errorf("unknown provider error = %v", err)
	}

	s = Settings{TTSProvider: ProviderElevenLabs}
	if _, err := s.SpeechKey(); !errors.Is(err, ErrMissingKey) {
		t.Errorf("SpeechKey() error = %v", err)
	}

	s = Settings{GroqAPIKey: "g"}
	if key, provider, err := s.RecognitionKey(); err != nil || key != "g" || provider != ProviderGroq {
		t.Errorf("RecognitionKey() = %q, %q, %v", key, provider, err)
	}

	s = Settings{STTProvider: ProviderGemini, OpenAIAPIKey: "o"}
	if _, _, err := s.RecognitionKey(); !errors.Is(err, ErrMissingKey) {
		t.Errorf("gemini RecognitionKey() error = %v", err)
	}
	s.GeminiAPIKey = "m"
	if key, provider, err := s.RecognitionKey(); err != nil || key != "m" || provider != ProviderGemini {
		t.Errorf("RecognitionKey() = %q, %q, %v", key, provider, err)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("record_seconds: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Save(path, map[string]string{
		"groq_api_key":   "gsk-saved",
		"openai_api_key": "",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(b)
	if !strings.Contains(content, "gsk-saved") {
		t.Errorf("saved config lacks the new key:\n%s", content)
	}
	if !strings.Contains(content, "record_seconds: 9") {
		t.Errorf("saved config lost existing settings:\n%s", content)
	}
	if strings.Contains(content, "openai_api_key") {
		t.Errorf("empty values should not be written:\n%s", content)
	}
}
