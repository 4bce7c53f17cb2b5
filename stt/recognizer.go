package stt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"
)

var (
	// ErrAmbiguousAudio means speech was captured but could not be turned
	// into text. Callers record again.
	ErrAmbiguousAudio = errors.New("could not understand audio")

	// ErrServiceUnavailable means the recognition backend itself failed.
	ErrServiceUnavailable = errors.New("speech recognition service unavailable")
)

// Recognizer turns a recorded WAV file into text.
type Recognizer interface {
	Recognize(ctx context.Context, wavPath string) (string, error)
}

type WhisperRecognizer struct {
	client   *openai.Client
	model    string
	language string
	log      *log.Logger
}

type Options struct {
	BaseURL  string
	Model    string
	Language string
}

// NewWhisperRecognizer uses the OpenAI audio transcription endpoint, or any
// compatible one such as Groq's.
func NewWhisperRecognizer(
	apiKey string,
	opts Options,
	logger *log.Logger,
) *WhisperRecognizer {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = openai.Whisper1
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	return &WhisperRecognizer{
		client:   openai.NewClientWithConfig(cfg),
		model:    opts.Model,
		language: opts.Language,
		log:      logger,
	}
}

func (w *WhisperRecognizer) Recognize(
	ctx context.Context,
	wavPath string,
) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: wavPath,
		Language: w.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrAmbiguousAudio
	}

	w.log.Debug("hear", "txt", text, "model", w.model)

	return text, nil
}
