package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"
)

const GroqBaseURL = "https://api.groq.com/openai/v1"

// Completer returns one completion for prompt, grounded on everything
// already in conv. A successful call records the prompt and the reply in
// conv.
type Completer interface {
	Complete(
		ctx context.Context,
		conv *Conversation,
		prompt string,
	) (string, error)
}

var ErrEmptyCompletion = errors.New("no completion returned")

type OpenAILanguageModel struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         *log.Logger
}

type Options struct {
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// NewOpenAILanguageModel talks to any OpenAI compatible chat endpoint. Groq
// is reached by setting BaseURL to GroqBaseURL.
func NewOpenAILanguageModel(
	apiKey string,
	opts Options,
	logger *log.Logger,
) *OpenAILanguageModel {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = openai.GPT4o
	}
	return &OpenAILanguageModel{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		log:         logger,
	}
}

func (o *OpenAILanguageModel) Complete(
	ctx context.Context,
	conv *Conversation,
	prompt string,
) (string, error) {
	var messages []openai.ChatCompletionMessage
	if conv.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: conv.SystemPrompt,
		})
	}

	for _, m := range conv.Messages() {
		role := openai.ChatMessageRoleUser
		if m.Role == Assistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	o.log.Debug("ask", "model", o.model, "history", conv.Len())

	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       o.model,
			Messages:    messages,
			MaxTokens:   o.maxTokens,
			Temperature: o.temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	o.log.Debug(
		"answer",
		"tokens", resp.Usage.TotalTokens,
		"finish", resp.Choices[0].FinishReason,
	)

	conv.Append(User, prompt)
	conv.Append(Assistant, reply)

	return reply, nil
}
