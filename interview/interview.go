// Package interview runs one mock interview: difficulty and topic selection,
// then every selected question with a generated follow-up.
package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"node.town/buddy/bank"
	"node.town/buddy/etc"
	"node.town/buddy/llm"
)

const (
	msgWelcome = "Welcome to your dynamic product management interview buddy!"
	msgClosing = "Thank you for using the product management interview buddy. Good luck with your interviews!"

	msgChooseDifficulty   = "Please choose your difficulty level: Easy, Medium, or Hard."
	msgBadDifficulty      = "Invalid difficulty level. Please choose again."
	msgBadDifficultySpoke = "Invalid difficulty level. Please choose Easy, Medium, or Hard."

	msgChooseTopics   = "Select the types of questions you want to be asked: Product Sense, Market Research, Behavioral, User Experience."
	msgBadTopics      = "Invalid question type. Please choose from: Product Sense, Market Research, Behavioral, User Experience."
	msgBadTopicsSpoke = "Invalid question types. Please choose again."

	followUpTemplate = "Based on the following context about a product management interview, generate a relevant follow-up question:\n\n%s\n\nFollow-up question:"
)

// SystemPrompt frames the conversation the follow-ups are generated in.
const SystemPrompt = "You are an experienced product management interviewer. " +
	"When asked for a follow-up question, reply with the question only."

var ErrSelectionExhausted = errors.New("no valid selection")

// Voice speaks to and hears from the candidate.
type Voice interface {
	Speak(ctx context.Context, text string) error
	Listen(ctx context.Context) (string, error)
}

type Session struct {
	ID         string
	Difficulty bank.Difficulty
	// RawTopics is the accepted topic answer, normalized but otherwise as
	// heard.
	RawTopics    string
	Topics       []bank.Topic
	Questions    []string
	Transcript   *Transcript
	Conversation *llm.Conversation
	// Quit is set when the candidate ended the session early.
	Quit bool
}

var (
	speakerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
)

type Interviewer struct {
	voice   Voice
	model   llm.Completer
	bank    *bank.Bank
	options Options
	log     *log.Logger

	Console io.Writer
}

func NewInterviewer(
	voice Voice,
	model llm.Completer,
	b *bank.Bank,
	options Options,
	logger *log.Logger,
) *Interviewer {
	return &Interviewer{
		voice:   voice,
		model:   model,
		bank:    b,
		options: options,
		log:     logger,
		Console: os.Stdout,
	}
}

// Run holds one full session. The session is returned even when an error
// cuts it short, so whatever was said can still be shown.
func (iv *Interviewer) Run(ctx context.Context) (*Session, error) {
	session := &Session{
		ID:           etc.NewFreshID(),
		Transcript:   &Transcript{},
		Conversation: llm.NewConversation(SystemPrompt),
	}
	log := iv.log.With("session", session.ID)

	if err := iv.announce(ctx, msgWelcome); err != nil {
		return session, err
	}

	difficulty, err := iv.selectDifficulty(ctx)
	if err != nil {
		return session, err
	}
	session.Difficulty = difficulty

	raw, topics, err := iv.selectTopics(ctx, log)
	if err != nil {
		return session, err
	}
	session.RawTopics = raw

	if iv.options.TopicParsing == Legacy {
		tokens := bank.SplitTopicsLegacy(raw)
		session.Questions = bank.Assemble(iv.bank, difficulty, tokens, log)
		for _, token := range tokens {
			if t, err := bank.ParseTopic(token); err == nil {
				session.Topics = append(session.Topics, t)
			}
		}
	} else {
		session.Topics = topics
		session.Questions = bank.AssembleTopics(iv.bank, difficulty, topics)
	}
	log.Info(
		"assembled questions",
		"difficulty", difficulty,
		"topics", len(session.Topics),
		"questions", len(session.Questions),
	)

	if err := iv.interview(ctx, session); err != nil {
		return session, err
	}

	if err := iv.announce(ctx, msgClosing); err != nil {
		return session, err
	}
	return session, nil
}

func (iv *Interviewer) interview(ctx context.Context, session *Session) error {
	for _, question := range session.Questions {
		answer, quit, err := iv.ask(ctx, question)
		if err != nil {
			return err
		}
		if quit {
			session.Quit = true
			return nil
		}
		session.Transcript.Append(Entry{Kind: Question, Prompt: question, Answer: answer})

		followUp, err := iv.model.Complete(
			ctx,
			session.Conversation,
			FollowUpPrompt(session.Transcript.Text()),
		)
		if err != nil {
			return fmt.Errorf("generate follow-up: %w", err)
		}

		answer, quit, err = iv.ask(ctx, followUp)
		if err != nil {
			return err
		}
		if quit {
			session.Quit = true
			return nil
		}
		session.Transcript.Append(Entry{Kind: FollowUp, Prompt: followUp, Answer: answer})
	}
	return nil
}

func FollowUpPrompt(context string) string {
	return fmt.Sprintf(followUpTemplate, context)
}

// IsQuit reports whether an answer asks to end the session.
func IsQuit(answer string) bool {
	return bank.Normalize(answer) == "quit"
}

// ask puts a question to the candidate and applies the empty answer policy.
func (iv *Interviewer) ask(ctx context.Context, question string) (string, bool, error) {
	retries := iv.options.EmptyAnswerRetries
	for {
		fmt.Fprintf(iv.Console, "%s %s\n", speakerStyle.Render("Interview Buddy:"), question)
		if err := iv.voice.Speak(ctx, question); err != nil {
			return "", false, err
		}
		answer, err := iv.voice.Listen(ctx)
		if err != nil {
			return "", false, err
		}
		if IsQuit(answer) {
			return answer, true, nil
		}
		if answer != "" {
			return answer, false, nil
		}

		switch iv.options.EmptyAnswer {
		case Quit:
			iv.log.Warn("empty answer, ending the session")
			return answer, true, nil
		case Retry:
			if retries > 0 {
				retries--
				iv.log.Warn("empty answer, asking again", "retries", retries)
				continue
			}
		}
		return answer, false, nil
	}
}

func (iv *Interviewer) selectDifficulty(ctx context.Context) (bank.Difficulty, error) {
	for attempt := 1; ; attempt++ {
		if err := iv.announce(ctx, msgChooseDifficulty); err != nil {
			return 0, err
		}
		answer, err := iv.voice.Listen(ctx)
		if err != nil {
			return 0, err
		}

		d, err := bank.ParseDifficulty(answer)
		if err == nil {
			confirm := fmt.Sprintf("You chose %s difficulty level.", d)
			if err := iv.announce(ctx, confirm); err != nil {
				return 0, err
			}
			return d, nil
		}

		iv.log.Debug("rejected difficulty", "answer", answer, "attempt", attempt)
		if err := iv.reject(ctx, msgBadDifficulty, msgBadDifficultySpoke); err != nil {
			return 0, err
		}
		if iv.exhausted(attempt) {
			return 0, fmt.Errorf("%w: difficulty after %d attempts", ErrSelectionExhausted, attempt)
		}
	}
}

// selectTopics returns the accepted answer and, unless parsing is legacy,
// the topics it names.
func (iv *Interviewer) selectTopics(ctx context.Context, log *log.Logger) (string, []bank.Topic, error) {
	for attempt := 1; ; attempt++ {
		if err := iv.announce(ctx, msgChooseTopics); err != nil {
			return "", nil, err
		}
		answer, err := iv.voice.Listen(ctx)
		if err != nil {
			return "", nil, err
		}

		raw := bank.Normalize(answer)
		if topics, ok := iv.acceptTopics(raw, log); ok {
			confirm := fmt.Sprintf("You selected %s questions.", raw)
			if err := iv.announce(ctx, confirm); err != nil {
				return "", nil, err
			}
			return raw, topics, nil
		}

		iv.log.Debug("rejected topics", "answer", answer, "attempt", attempt)
		if err := iv.reject(ctx, msgBadTopics, msgBadTopicsSpoke); err != nil {
			return "", nil, err
		}
		if iv.exhausted(attempt) {
			return "", nil, fmt.Errorf("%w: topics after %d attempts", ErrSelectionExhausted, attempt)
		}
	}
}

// acceptTopics decides whether raw is a usable topic answer. Strict parsing
// turns down answers with any word that is neither a topic nor a separator;
// lenient parsing keeps the topics and reports the rest.
func (iv *Interviewer) acceptTopics(raw string, log *log.Logger) ([]bank.Topic, bool) {
	if !bank.MentionsTopic(raw) {
		return nil, false
	}
	if iv.options.TopicParsing == Legacy {
		return nil, true
	}

	sel, err := bank.ParseTopics(raw)
	if err != nil {
		log.Error("parse topics", "error", err)
		return nil, false
	}
	if len(sel.Unknown) > 0 && iv.options.TopicParsing == Strict {
		log.Debug("topic answer has stray words", "fragments", sel.Unknown)
		return nil, false
	}
	for _, fragment := range sel.Unknown {
		log.Warn("ignoring words that name no topic", "fragment", fragment)
		fmt.Fprintf(iv.Console, "%s\n", noticeStyle.Render(
			fmt.Sprintf("Invalid question type '%s', skipping.", fragment),
		))
	}
	return sel.Topics, true
}

func (iv *Interviewer) exhausted(attempt int) bool {
	limit := iv.options.SelectionAttempts
	return limit > 0 && attempt >= limit
}

func (iv *Interviewer) announce(ctx context.Context, text string) error {
	fmt.Fprintln(iv.Console, text)
	return iv.voice.Speak(ctx, text)
}

func (iv *Interviewer) reject(ctx context.Context, printed, spoken string) error {
	fmt.Fprintln(iv.Console, noticeStyle.Render(printed))
	return iv.voice.Speak(ctx, spoken)
}
