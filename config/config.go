package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

var ErrMissingKey = errors.New("missing API key")

const (
	ProviderGroq       = "groq"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderElevenLabs = "elevenlabs"
	ProviderWhisper    = "whisper"
)

type Settings struct {
	Debug    bool   `mapstructure:"debug"`
	Keyboard bool   `mapstructure:"keyboard"`
	LogFile  string `mapstructure:"log_file"`

	GroqAPIKey       string `mapstructure:"groq_api_key"`
	OpenAIAPIKey     string `mapstructure:"openai_api_key"`
	GeminiAPIKey     string `mapstructure:"gemini_api_key"`
	ElevenLabsAPIKey string `mapstructure:"elevenlabs_api_key"`

	LLMProvider    string  `mapstructure:"llm_provider"`
	LLMModel       string  `mapstructure:"llm_model"`
	LLMTemperature float32 `mapstructure:"llm_temperature"`
	LLMMaxTokens   int     `mapstructure:"llm_max_tokens"`

	TTSProvider string `mapstructure:"tts_provider"`
	TTSVoice    string `mapstructure:"tts_voice"`
	STTProvider string `mapstructure:"stt_provider"`
	STTModel    string `mapstructure:"stt_model"`

	RecordSeconds  int `mapstructure:"record_seconds"`
	SampleRate     int `mapstructure:"sample_rate"`
	ListenAttempts int `mapstructure:"listen_attempts"`

	SelectionAttempts  int    `mapstructure:"selection_attempts"`
	EmptyAnswerPolicy  string `mapstructure:"empty_answer_policy"`
	EmptyAnswerRetries int    `mapstructure:"empty_answer_retries"`
	TopicParsing       string `mapstructure:"topic_parsing"`
}

var defaults = map[string]interface{}{
	"debug":                false,
	"keyboard":             false,
	"log_file":             "",
	"groq_api_key":         "",
	"openai_api_key":       "",
	"gemini_api_key":       "",
	"elevenlabs_api_key":   "",
	"llm_provider":         ProviderGroq,
	"llm_model":            "mixtral-8x7b-32768",
	"llm_temperature":      0.7,
	"llm_max_tokens":       1024,
	"tts_provider":         ProviderOpenAI,
	"tts_voice":            "",
	"stt_provider":         ProviderWhisper,
	"stt_model":            "whisper-1",
	"record_seconds":       7,
	"sample_rate":          44100,
	"listen_attempts":      0,
	"selection_attempts":   0,
	"empty_answer_policy":  "proceed",
	"empty_answer_retries": 1,
	"topic_parsing":        "strict",
}

// SetDefaults registers every key, which also lets AutomaticEnv find them.
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Init points v at ./config.yaml and the environment. A missing config file
// is not an error.
func Init(v *viper.Viper) error {
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func Load(v *viper.Viper) (*Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	settings.LLMProvider = strings.ToLower(settings.LLMProvider)
	settings.TTSProvider = strings.ToLower(settings.TTSProvider)
	settings.STTProvider = strings.ToLower(settings.STTProvider)
	return &settings, nil
}

// CompletionKey returns the key of the configured language model provider.
func (s *Settings) CompletionKey() (string, error) {
	var key, name string
	switch s.LLMProvider {
	case ProviderGroq:
		key, name = s.GroqAPIKey, "GROQ_API_KEY"
	case ProviderOpenAI:
		key, name = s.OpenAIAPIKey, "OPENAI_API_KEY"
	case ProviderGemini:
		key, name = s.GeminiAPIKey, "GEMINI_API_KEY"
	default:
		return "", fmt.Errorf("unknown llm provider %q", s.LLMProvider)
	}
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, name)
	}
	return key, nil
}

// SpeechKey returns the key of the configured text to speech provider.
func (s *Settings) SpeechKey() (string, error) {
	var key, name string
	switch s.TTSProvider {
	case ProviderOpenAI:
		key, name = s.OpenAIAPIKey, "OPENAI_API_KEY"
	case ProviderElevenLabs:
		key, name = s.ElevenLabsAPIKey, "ELEVENLABS_API_KEY"
	default:
		return "", fmt.Errorf("unknown tts provider %q", s.TTSProvider)
	}
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, name)
	}
	return key, nil
}

// RecognitionKey returns the key used for transcription and who serves it.
// Groq serves Whisper too, so a Groq setup needs no OpenAI key.
func (s *Settings) RecognitionKey() (string, string, error) {
	switch s.STTProvider {
	case "", ProviderWhisper:
	case ProviderGemini:
		if s.GeminiAPIKey == "" {
			return "", "", fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingKey)
		}
		return s.GeminiAPIKey, ProviderGemini, nil
	default:
		return "", "", fmt.Errorf("unknown stt provider %q", s.STTProvider)
	}
	if s.OpenAIAPIKey != "" {
		return s.OpenAIAPIKey, ProviderOpenAI, nil
	}
	if s.GroqAPIKey != "" {
		return s.GroqAPIKey, ProviderGroq, nil
	}
	return "", "", fmt.Errorf("%w: OPENAI_API_KEY or GROQ_API_KEY", ErrMissingKey)
}

// Save writes values into the config file at path, keeping what is already
// there.
func Save(path string, values map[string]string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	for key, value := range values {
		if value != "" {
			v.Set(key, value)
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
