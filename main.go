package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"node.town/buddy/audio"
	"node.town/buddy/bank"
	"node.town/buddy/config"
	"node.town/buddy/interview"
	"node.town/buddy/llm"
	"node.town/buddy/setup"
	"node.town/buddy/stt"
	"node.town/buddy/tts"
	"node.town/buddy/voice"
)

var (
	version = "dev"
	logger  *log.Logger
	logFile *os.File
)

func init() {
	cobra.OnInitialize(initConfig)

	questionsCmd.Flags().String("difficulty", "", "Only list questions of this difficulty")
	questionsCmd.Flags().StringSlice("topic", nil, "Only list questions of these topics")
	questionsCmd.Flags().Bool("pick", false, "Pick difficulty and topic interactively")
	rootCmd.Flags().Bool("review", false, "Ask the model for feedback when the interview ends")

	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(versionCmd)

	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output")
	rootCmd.PersistentFlags().
		Bool("keyboard", false, "Type answers instead of speaking them")
	rootCmd.PersistentFlags().String("groq-api-key", "", "Groq API key")
	rootCmd.PersistentFlags().String("openai-api-key", "", "OpenAI API key")
	rootCmd.PersistentFlags().String("gemini-api-key", "", "Gemini API key")
	rootCmd.PersistentFlags().
		String("elevenlabs-api-key", "", "ElevenLabs API key")
	rootCmd.PersistentFlags().
		String("llm-provider", "", "Language model provider: groq, openai or gemini")
	rootCmd.PersistentFlags().String("llm-model", "", "Language model name")
	rootCmd.PersistentFlags().
		String("tts-provider", "", "Speech provider: openai or elevenlabs")
	rootCmd.PersistentFlags().
		Int("record-seconds", 0, "Length of each answer recording")
	rootCmd.PersistentFlags().
		String("stt-provider", "", "Speech recognition: whisper or gemini")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"debug":              "debug",
		"keyboard":           "keyboard",
		"groq_api_key":       "groq-api-key",
		"openai_api_key":     "openai-api-key",
		"gemini_api_key":     "gemini-api-key",
		"elevenlabs_api_key": "elevenlabs-api-key",
		"llm_provider":       "llm-provider",
		"llm_model":          "llm-model",
		"tts_provider":       "tts-provider",
		"record_seconds":     "record-seconds",
		"stt_provider":       "stt-provider",
		"log_file":           "log-file",
	} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
}

func initConfig() {
	logger = log.New(os.Stderr)

	if err := config.Init(viper.GetViper()); err != nil {
		logger.Warn("Error reading config file", "error", err)
	}

	if path := viper.GetString("log_file"); path != "" {
		fileLogger, f, err := openLogFile(path)
		if err != nil {
			logger.Fatal("Failed to open log file", "error", err)
		}
		logger, logFile = fileLogger, f
	}
}

func openLogFile(path string) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	}), f, nil
}

func closeLogFile() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close log file:", err)
	}
	logFile = nil
}

var rootCmd = &cobra.Command{
	Use:   "buddy",
	Short: "Buddy is a spoken mock interview for product managers",
	Long: `Buddy asks product management interview questions out loud, listens to
your answers and follows each one up with a question of its own.`,
	Args: cobra.NoArgs,
	Run:  runInterview,
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the question bank in a table",
	Run:   runListQuestions,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose providers and store API keys in config.yaml",
	Run:   runSetup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("buddy", version)
	},
}

func main() {
	err := rootCmd.Execute()
	closeLogFile()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runInterview(cmd *cobra.Command, args []string) {
	mainLogger, talkLogger, hearLogger, thinkLogger, bankLogger := createLoggers()

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		mainLogger.Fatal("load config", "error", err.Error())
	}

	options, err := interviewOptions(settings)
	if err != nil {
		mainLogger.Fatal("invalid config", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	model, closeModel, err := newLanguageModel(ctx, settings, thinkLogger)
	if err != nil {
		mainLogger.Fatal("create language model", "error", err.Error())
	}
	defer closeModel()

	candidate, closeVoice, err := newVoice(ctx, settings, talkLogger, hearLogger)
	if err != nil {
		mainLogger.Fatal("set up voice", "error", err.Error())
	}
	defer closeVoice()

	interviewer := interview.NewInterviewer(
		candidate,
		model,
		bank.Default(),
		options,
		bankLogger,
	)

	session, err := interviewer.Run(ctx)
	if session != nil && session.Transcript.Len() > 0 {
		renderMarkdown(mainLogger, session.Transcript.Markdown())
	}
	if err != nil {
		if ctx.Err() != nil {
			mainLogger.Info("interview interrupted")
			return
		}
		mainLogger.Fatal("interview failed", "error", err.Error())
	}

	mainLogger.Info(
		"interview finished",
		"session", session.ID,
		"answers", session.Transcript.Len(),
		"quit", session.Quit,
	)

	review, _ := cmd.Flags().GetBool("review")
	if review {
		summary, err := llm.SummarizeInterview(ctx, model, session.Transcript.Text())
		if err != nil {
			mainLogger.Fatal("review interview", "error", err.Error())
		}
		renderMarkdown(mainLogger, summary)
	}
}

func interviewOptions(s *config.Settings) (interview.Options, error) {
	policy, err := interview.ParseEmptyAnswerPolicy(s.EmptyAnswerPolicy)
	if err != nil {
		return interview.Options{}, err
	}
	parsing, err := interview.ParseTopicParsing(s.TopicParsing)
	if err != nil {
		return interview.Options{}, err
	}
	return interview.Options{
		SelectionAttempts:  s.SelectionAttempts,
		EmptyAnswer:        policy,
		EmptyAnswerRetries: s.EmptyAnswerRetries,
		TopicParsing:       parsing,
	}, nil
}

// defaultGroqModel is only meaningful on Groq; other providers fall back to
// their own default when it is still configured.
const defaultGroqModel = "mixtral-8x7b-32768"

func modelName(s *config.Settings) string {
	if s.LLMProvider != config.ProviderGroq && s.LLMModel == defaultGroqModel {
		return ""
	}
	return s.LLMModel
}

func newLanguageModel(
	ctx context.Context,
	s *config.Settings,
	logger *log.Logger,
) (llm.Completer, func(), error) {
	key, err := s.CompletionKey()
	if err != nil {
		return nil, nil, err
	}

	opts := llm.Options{
		Model:       modelName(s),
		Temperature: s.LLMTemperature,
		MaxTokens:   s.LLMMaxTokens,
	}

	switch s.LLMProvider {
	case config.ProviderGemini:
		model, err := llm.NewGeminiLanguageModel(ctx, key, opts, logger)
		if err != nil {
			return nil, nil, err
		}
		return model, func() { model.Close() }, nil
	case config.ProviderGroq:
		opts.BaseURL = llm.GroqBaseURL
	}
	return llm.NewOpenAILanguageModel(key, opts, logger), func() {}, nil
}

func newSpeechGenerator(s *config.Settings) (tts.SpeechGenerator, error) {
	key, err := s.SpeechKey()
	if err != nil {
		return nil, err
	}
	if s.TTSProvider == config.ProviderElevenLabs {
		return tts.NewElevenLabsSpeechGenerator(key, s.TTSVoice), nil
	}
	return tts.NewOpenAISpeechGenerator(key, "", s.TTSVoice), nil
}

func recognizerOptions(s *config.Settings) (string, string, stt.Options, error) {
	key, provider, err := s.RecognitionKey()
	if err != nil {
		return "", "", stt.Options{}, err
	}
	opts := stt.Options{Model: s.STTModel}
	switch provider {
	case config.ProviderGroq:
		opts.BaseURL = llm.GroqBaseURL
		if opts.Model == "" || opts.Model == "whisper-1" {
			opts.Model = "whisper-large-v3"
		}
	case config.ProviderGemini:
		if strings.HasPrefix(opts.Model, "whisper") {
			opts.Model = ""
		}
	}
	return key, provider, opts, nil
}

func newRecognizer(
	ctx context.Context,
	s *config.Settings,
	logger *log.Logger,
) (stt.Recognizer, func(), error) {
	key, provider, opts, err := recognizerOptions(s)
	if err != nil {
		return nil, nil, err
	}
	if provider == config.ProviderGemini {
		recognizer, err := stt.NewGeminiRecognizer(ctx, key, opts.Model, logger)
		if err != nil {
			return nil, nil, err
		}
		return recognizer, func() { recognizer.Close() }, nil
	}
	return stt.NewWhisperRecognizer(key, opts, logger), func() {}, nil
}

func newVoice(
	ctx context.Context,
	s *config.Settings,
	talkLogger *log.Logger,
	hearLogger *log.Logger,
) (interview.Voice, func(), error) {
	speaker := audio.NewSpeaker(talkLogger)

	if s.Keyboard {
		speech, err := newSpeechGenerator(s)
		if err != nil {
			talkLogger.Warn("questions will only be printed", "reason", err.Error())
			return voice.NewKeyboard(nil), func() {}, nil
		}
		mouth := voice.NewAdapter(speech, speaker, nil, nil, talkLogger, hearLogger)
		return voice.NewKeyboard(mouth), func() {}, nil
	}

	speech, err := newSpeechGenerator(s)
	if err != nil {
		return nil, nil, err
	}

	recognizer, closeRecognizer, err := newRecognizer(ctx, s, hearLogger)
	if err != nil {
		return nil, nil, err
	}

	mic, err := audio.NewMicrophone(
		audio.Format{SampleRate: s.SampleRate, Channels: 1},
		hearLogger,
	)
	if err != nil {
		closeRecognizer()
		return nil, nil, err
	}

	adapter := voice.NewAdapter(speech, speaker, mic, recognizer, talkLogger, hearLogger)
	if s.RecordSeconds > 0 {
		adapter.Window = time.Duration(s.RecordSeconds) * time.Second
	}
	adapter.Retry = voice.RetryPolicy{MaxAttempts: s.ListenAttempts}
	adapter.Countdown = isatty.IsTerminal(os.Stdout.Fd())

	return adapter, func() {
		mic.Close()
		closeRecognizer()
	}, nil
}

func renderMarkdown(logger *log.Logger, markdown string) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		logger.Error("failed to create renderer", "error", err.Error())
		fmt.Println(markdown)
		return
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		logger.Error("failed to render", "error", err.Error())
		fmt.Println(markdown)
		return
	}
	fmt.Print(rendered)
}

func runSetup(cmd *cobra.Command, args []string) {
	mainLogger, _, _, _, _ := createLoggers()

	if err := setup.RunSetup("config.yaml", mainLogger); err != nil {
		mainLogger.Fatal("setup failed", "error", err.Error())
	}
}

func createLoggers() (mainLogger, talkLogger, hearLogger, thinkLogger, bankLogger *log.Logger) {
	logLevel := log.InfoLevel
	if viper.GetBool("debug") {
		logLevel = log.DebugLevel
		logger.SetReportCaller(true)
		logger.SetCallerFormatter(
			func(file string, line int, funcName string) string {
				path, err := filepath.Rel(".", file)
				if err != nil {
					path = file
				}
				return fmt.Sprintf("%s:%d", path, line)
			},
		)
	}
	logger.SetLevel(logLevel)

	styles := log.DefaultStyles()
	styles.Prefix = styles.Prefix.
		Bold(false).Transform(func(s string) string {
		return strings.TrimSuffix(s, ":")
	})
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Levels[log.WarnLevel] = styles.Levels[log.WarnLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Message = styles.Message.Bold(true).Width(24)
	styles.Key = styles.Key.MarginLeft(1).
		Bold(false).
		Foreground(lipgloss.Color("#ff8800"))

	logger.SetStyles(styles)

	mainLogger = logger.With().WithPrefix("main")
	talkLogger = logger.With().WithPrefix("talk")
	hearLogger = logger.With().WithPrefix("hear")
	thinkLogger = logger.With().WithPrefix("think")
	bankLogger = logger.With().WithPrefix("bank")

	return
}
