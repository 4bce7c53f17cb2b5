package tts

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/haguro/elevenlabs-go"
	"github.com/sashabaranov/go-openai"
)

// SpeechGenerator writes MP3 audio for text to writer.
type SpeechGenerator interface {
	TextToSpeech(ctx context.Context, text string, writer io.Writer) error
}

const DefaultElevenLabsVoice = "pKLLpypGseGMUjkb5fEZ"

type ElevenLabsSpeechGenerator struct {
	apiKey string
	voice  string
}

func NewElevenLabsSpeechGenerator(
	apiKey string,
	voice string,
) *ElevenLabsSpeechGenerator {
	if voice == "" {
		voice = DefaultElevenLabsVoice
	}
	return &ElevenLabsSpeechGenerator{apiKey: apiKey, voice: voice}
}

func (e *ElevenLabsSpeechGenerator) TextToSpeech(
	ctx context.Context,
	text string,
	writer io.Writer,
) error {
	client := elevenlabs.NewClient(ctx, e.apiKey, 30*time.Second)
	ttsReq := elevenlabs.TextToSpeechRequest{
		Text:    text,
		ModelID: "eleven_turbo_v2_5",
	}

	err := client.TextToSpeechStream(writer, e.voice, ttsReq)
	if err != nil {
		return fmt.Errorf("failed to generate speech: %w", err)
	}
	return nil
}

type OpenAISpeechGenerator struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

func NewOpenAISpeechGenerator(
	apiKey string,
	baseURL string,
	voice string,
) *OpenAISpeechGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &OpenAISpeechGenerator{
		client: openai.NewClientWithConfig(cfg),
		voice:  openai.SpeechVoice(voice),
	}
}

func (o *OpenAISpeechGenerator) TextToSpeech(
	ctx context.Context,
	text string,
	writer io.Writer,
) error {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("failed to generate speech: %w", err)
	}
	defer resp.Close()

	if _, err := io.Copy(writer, resp); err != nil {
		return fmt.Errorf("failed to read speech: %w", err)
	}
	return nil
}
