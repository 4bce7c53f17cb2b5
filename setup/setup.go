package setup

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"node.town/buddy/config"
)

// Answers is what the setup form collects.
type Answers struct {
	LLMProvider      string
	TTSProvider      string
	GroqAPIKey       string
	OpenAIAPIKey     string
	GeminiAPIKey     string
	ElevenLabsAPIKey string
}

func (a Answers) Validate() error {
	var missing string
	switch a.LLMProvider {
	case config.ProviderGroq:
		if a.GroqAPIKey == "" {
			missing = "Groq"
		}
	case config.ProviderOpenAI:
		if a.OpenAIAPIKey == "" {
			missing = "OpenAI"
		}
	case config.ProviderGemini:
		if a.GeminiAPIKey == "" {
			missing = "Gemini"
		}
	}
	if missing == "" {
		switch a.TTSProvider {
		case config.ProviderOpenAI:
			if a.OpenAIAPIKey == "" {
				missing = "OpenAI"
			}
		case config.ProviderElevenLabs:
			if a.ElevenLabsAPIKey == "" {
				missing = "ElevenLabs"
			}
		}
	}
	if missing != "" {
		return fmt.Errorf("%w: the chosen providers need a %s key", config.ErrMissingKey, missing)
	}
	return nil
}

// Values maps the answers onto config keys.
func (a Answers) Values() map[string]string {
	return map[string]string{
		"llm_provider":       a.LLMProvider,
		"tts_provider":       a.TTSProvider,
		"groq_api_key":       a.GroqAPIKey,
		"openai_api_key":     a.OpenAIAPIKey,
		"gemini_api_key":     a.GeminiAPIKey,
		"elevenlabs_api_key": a.ElevenLabsAPIKey,
	}
}

// RunSetup asks for providers and API keys and writes them to path.
func RunSetup(path string, logger *log.Logger) error {
	logger.Info("Starting buddy setup...")

	answers := Answers{
		LLMProvider: config.ProviderGroq,
		TTSProvider: config.ProviderOpenAI,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which language model should ask the follow-ups?").
				Options(
					huh.NewOption("Groq", config.ProviderGroq),
					huh.NewOption("OpenAI", config.ProviderOpenAI),
					huh.NewOption("Gemini", config.ProviderGemini),
				).
				Value(&answers.LLMProvider),
			huh.NewSelect[string]().
				Title("Which voice should read the questions?").
				Options(
					huh.NewOption("OpenAI", config.ProviderOpenAI),
					huh.NewOption("ElevenLabs", config.ProviderElevenLabs),
				).
				Value(&answers.TTSProvider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your Groq API Key").
				EchoMode(huh.EchoModePassword).
				Value(&answers.GroqAPIKey),
			huh.NewInput().
				Title("Enter your OpenAI API Key").
				Description("Also used for speech recognition when set").
				EchoMode(huh.EchoModePassword).
				Value(&answers.OpenAIAPIKey),
			huh.NewInput().
				Title("Enter your Google Cloud (Gemini) API Key").
				EchoMode(huh.EchoModePassword).
				Value(&answers.GeminiAPIKey),
			huh.NewInput().
				Title("Enter your ElevenLabs API Key").
				EchoMode(huh.EchoModePassword).
				Value(&answers.ElevenLabsAPIKey),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			logger.Info("Setup aborted")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := answers.Validate(); err != nil {
		logger.Warn("Saving anyway", "error", err)
	}

	if err := config.Save(path, answers.Values()); err != nil {
		return err
	}

	logger.Info("Setup completed successfully!", "config", path)
	return nil
}
