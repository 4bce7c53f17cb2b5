package stt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"node.town/buddy/llm"
)

// inaudible is what the model is told to answer when it hears no words.
const inaudible = "[inaudible]"

const transcriptionPrompt = `Transcribe the candidate's spoken answer in this recording as accurately as possible, with good grammar and punctuation.

Reply with the transcript only. If no words can be made out, reply with exactly ` + inaudible + `.`

// GeminiRecognizer transcribes recordings by sending them inline to a
// Gemini model.
type GeminiRecognizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *log.Logger
}

func NewGeminiRecognizer(
	ctx context.Context,
	apiKey string,
	model string,
	logger *log.Logger,
) (*GeminiRecognizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiRecognizer{
		client: client,
		model:  setupGenerativeModel(client, model),
		log:    logger,
	}, nil
}

func setupGenerativeModel(client *genai.Client, name string) *genai.GenerativeModel {
	model := client.GenerativeModel(name)
	model.GenerationConfig.SetMaxOutputTokens(2048)
	model.GenerationConfig.SetTemperature(0.1)
	model.GenerationConfig.SetTopP(1.0)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(transcriptionPrompt)},
	}
	model.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockOnlyHigh,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockOnlyHigh,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockOnlyHigh,
		},
	}
	return model
}

func (g *GeminiRecognizer) Close() error {
	return g.client.Close()
}

func (g *GeminiRecognizer) Recognize(
	ctx context.Context,
	wavPath string,
) (string, error) {
	wav, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}

	stream := g.model.GenerateContentStream(
		ctx,
		genai.Text("<current-audio>\n"),
		genai.Blob{MIMEType: "audio/wav", Data: wav},
		genai.Text("</current-audio>\n"),
	)

	var text strings.Builder
	for {
		resp, err := stream.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		text.WriteString(llm.ResponseText(resp))
	}

	return g.result(text.String())
}

func (g *GeminiRecognizer) result(reply string) (string, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.EqualFold(reply, inaudible) {
		return "", ErrAmbiguousAudio
	}
	g.log.Debug("hear", "txt", reply, "model", "gemini")
	return reply, nil
}
