package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLanguageModel builds a fresh GenerativeModel for every completion
// so one conversation's system instruction never reaches another.
type GeminiLanguageModel struct {
	client      *genai.Client
	name        string
	temperature float32
	maxTokens   int
	log         *log.Logger
}

func NewGeminiLanguageModel(
	ctx context.Context,
	apiKey string,
	opts Options,
	logger *log.Logger,
) (*GeminiLanguageModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	name := opts.Model
	if name == "" {
		name = "gemini-1.5-flash"
	}

	return &GeminiLanguageModel{
		client:      client,
		name:        name,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		log:         logger,
	}, nil
}

func (g *GeminiLanguageModel) Close() error {
	return g.client.Close()
}

func (g *GeminiLanguageModel) Complete(
	ctx context.Context,
	conv *Conversation,
	prompt string,
) (string, error) {
	chat := g.modelFor(conv).StartChat()
	chat.History = geminiHistory(conv.Messages())

	g.log.Debug("ask", "model", "gemini", "history", conv.Len())

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	reply := strings.TrimSpace(ResponseText(resp))
	if reply == "" {
		return "", ErrEmptyCompletion
	}

	conv.Append(User, prompt)
	conv.Append(Assistant, reply)

	return reply, nil
}

func (g *GeminiLanguageModel) modelFor(conv *Conversation) *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.name)
	model.SetTemperature(g.temperature)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(g.maxTokens))
	}
	if conv.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(conv.SystemPrompt)},
		}
	}
	return model
}

func geminiHistory(messages []Message) []*genai.Content {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == Assistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return history
}

// ResponseText joins the text parts of every candidate in resp.
func ResponseText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
