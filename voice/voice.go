// Package voice speaks text aloud and listens for spoken answers.
package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"node.town/buddy/audio"
	"node.town/buddy/stt"
	"node.town/buddy/tts"
)

const (
	DefaultWindow = 7 * time.Second

	msgSpeakNow      = "Speak now..."
	msgNotUnderstood = "I could not understand you, please try again."
	msgServiceError  = "There was an error with the speech recognition service, please try again."
)

// ErrTooManyAttempts is returned by Listen when the retry policy runs out
// before anything was understood.
var ErrTooManyAttempts = errors.New("no speech recognized within attempt limit")

type Recorder interface {
	Format() audio.Format
	Record(ctx context.Context, window time.Duration) ([]byte, error)
}

type Player interface {
	PlayMP3(ctx context.Context, r io.Reader) error
}

// RetryPolicy bounds how many recording windows Listen will try when the
// audio is not understood. Zero means keep trying.
type RetryPolicy struct {
	MaxAttempts int
}

func (p RetryPolicy) exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt > p.MaxAttempts
}

type Adapter struct {
	speech     tts.SpeechGenerator
	player     Player
	recorder   Recorder
	recognizer stt.Recognizer

	Window  time.Duration
	Retry   RetryPolicy
	TempDir string
	Console io.Writer

	// Countdown draws the time left in each recording window. Only turn it
	// on when Console is a terminal.
	Countdown bool

	talkLog *log.Logger
	hearLog *log.Logger
}

func NewAdapter(
	speech tts.SpeechGenerator,
	player Player,
	recorder Recorder,
	recognizer stt.Recognizer,
	talkLog *log.Logger,
	hearLog *log.Logger,
) *Adapter {
	return &Adapter{
		speech:     speech,
		player:     player,
		recorder:   recorder,
		recognizer: recognizer,
		Window:     DefaultWindow,
		Console:    os.Stdout,
		talkLog:    talkLog,
		hearLog:    hearLog,
	}
}

// Speak synthesizes text to a temporary MP3 file and plays it, returning
// once playback is over.
func (a *Adapter) Speak(ctx context.Context, text string) error {
	f, err := os.CreateTemp(a.TempDir, "buddy-talk-*.mp3")
	if err != nil {
		return fmt.Errorf("create speech file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := a.speech.TextToSpeech(ctx, text, f); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind speech file: %w", err)
	}

	a.talkLog.Debug("talk", "txt", text)

	if err := a.player.PlayMP3(ctx, f); err != nil {
		return fmt.Errorf("play speech: %w", err)
	}
	return nil
}

// Listen records fixed windows until one is understood. Audio that cannot
// be understood is apologized for and recorded again; a failing recognition
// service is reported and yields an empty answer instead.
func (a *Adapter) Listen(ctx context.Context) (string, error) {
	for attempt := 1; ; attempt++ {
		if a.Retry.exhausted(attempt) {
			return "", ErrTooManyAttempts
		}

		fmt.Fprintln(a.Console, msgSpeakNow)

		pcm, err := a.record(ctx)
		if err != nil {
			return "", fmt.Errorf("record answer: %w", err)
		}

		text, err := a.recognize(ctx, pcm)
		switch {
		case err == nil:
			fmt.Fprintf(a.Console, "You said: %s\n", text)
			return text, nil

		case errors.Is(err, stt.ErrAmbiguousAudio):
			a.hearLog.Warn("not understood", "attempt", attempt)
			fmt.Fprintln(
				a.Console,
				"Speech recognition could not understand audio, please try again.",
			)
			if err := a.Speak(ctx, msgNotUnderstood); err != nil {
				return "", err
			}

		case errors.Is(err, stt.ErrServiceUnavailable):
			a.hearLog.Error("recognition failed", "error", err.Error())
			fmt.Fprintf(
				a.Console,
				"Could not request results from the speech recognition service; %v\n",
				err,
			)
			if err := a.Speak(ctx, msgServiceError); err != nil {
				return "", err
			}
			return "", nil

		default:
			return "", err
		}
	}
}

func (a *Adapter) recognize(ctx context.Context, pcm []byte) (string, error) {
	var wav bytes.Buffer
	if err := audio.WriteWAV(&wav, pcm, a.recorder.Format()); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(a.TempDir, "buddy-hear-*.wav")
	if err != nil {
		return "", fmt.Errorf("create recording file: %w", err)
	}
	defer os.Remove(f.Name())

	_, err = f.Write(wav.Bytes())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write recording file: %w", err)
	}

	return a.recognizer.Recognize(ctx, f.Name())
}
