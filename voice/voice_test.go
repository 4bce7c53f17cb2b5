package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"node.town/buddy/audio"
	"node.town/buddy/stt"
)

type mockSpeech struct{}

func (m *mockSpeech) TextToSpeech(_ context.Context, text string, w io.Writer) error {
	_, err := io.WriteString(w, text)
	return err
}

type mockPlayer struct {
	played []string
}

func (m *mockPlayer) PlayMP3(_ context.Context, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.played = append(m.played, string(b))
	return nil
}

type mockRecorder struct {
	windows []time.Duration
}

func (m *mockRecorder) Format() audio.Format {
	return audio.Format{SampleRate: 44100, Channels: 1}
}

func (m *mockRecorder) Record(_ context.Context, window time.Duration) ([]byte, error) {
	m.windows = append(m.windows, window)
	return make([]byte, 8), nil
}

// scriptedRecognizer replays results in order and checks that every file it
// is handed is a real WAV.
type scriptedRecognizer struct {
	t       *testing.T
	results []recognition
	calls   int
}

type recognition struct {
	text string
	err  error
}

func (s *scriptedRecognizer) Recognize(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		s.t.Fatalf("read recording: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("RIFF")) {
		s.t.Errorf("recording is not a wav file")
	}
	if s.calls >= len(s.results) {
		s.t.Fatalf("recognizer called %d times, only %d results scripted", s.calls+1, len(s.results))
	}
	r := s.results[s.calls]
	s.calls++
	return r.text, r.err
}

func newTestAdapter(t *testing.T, results ...recognition) (*Adapter, *mockPlayer, *mockRecorder, *bytes.Buffer) {
	t.Helper()
	player := &mockPlayer{}
	recorder := &mockRecorder{}
	console := &bytes.Buffer{}
	a := NewAdapter(
		&mockSpeech{},
		player,
		recorder,
		&scriptedRecognizer{t: t, results: results},
		log.New(io.Discard),
		log.New(io.Discard),
	)
	a.TempDir = t.TempDir()
	a.Console = console
	return a, player, recorder, console
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d temp files left behind", len(entries))
	}
}

func TestSpeakPlaysAndCleansUp(t *testing.T) {
	a, player, _, _ := newTestAdapter(t)

	if err := a.Speak(context.Background(), "Welcome!"); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if len(player.played) != 1 || player.played[0] != "Welcome!" {
		t.Errorf("played = %q", player.played)
	}
	assertNoTempFiles(t, a.TempDir)
}

func TestListenFirstTry(t *testing.T) {
	a, player, recorder, console := newTestAdapter(t, recognition{text: "medium"})

	got, err := a.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if got != "medium" {
		t.Errorf("Listen() = %q", got)
	}
	if len(recorder.windows) != 1 || recorder.windows[0] != 7*time.Second {
		t.Errorf("windows = %v", recorder.windows)
	}
	if len(player.played) != 0 {
		t.Errorf("unexpected speech %q", player.played)
	}
	if !strings.Contains(console.String(), "Speak now...\nYou said: medium\n") {
		t.Errorf("console = %q", console.String())
	}
	assertNoTempFiles(t, a.TempDir)
}

func TestListenRetriesAmbiguousAudio(t *testing.T) {
	for _, failures := range []int{1, 3, 25} {
		t.Run(fmt.Sprintf("%d failures", failures), func(t *testing.T) {
			var results []recognition
			for i := 0; i < failures; i++ {
				results = append(results, recognition{err: stt.ErrAmbiguousAudio})
			}
			results = append(results, recognition{text: "hard"})

			a, player, recorder, _ := newTestAdapter(t, results...)

			got, err := a.Listen(context.Background())
			if err != nil {
				t.Fatalf("Listen() error = %v", err)
			}
			if got != "hard" {
				t.Errorf("Listen() = %q", got)
			}
			if len(recorder.windows) != failures+1 {
				t.Errorf("recorded %d windows, want %d", len(recorder.windows), failures+1)
			}
			if len(player.played) != failures {
				t.Fatalf("spoke %d apologies, want %d", len(player.played), failures)
			}
			for _, p := range player.played {
				if p != msgNotUnderstood {
					t.Errorf("spoke %q", p)
				}
			}
			assertNoTempFiles(t, a.TempDir)
		})
	}
}

func TestListenServiceUnavailableGivesEmptyAnswer(t *testing.T) {
	a, player, recorder, _ := newTestAdapter(
		t,
		recognition{err: fmt.Errorf("%w: 503", stt.ErrServiceUnavailable)},
	)

	got, err := a.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if got != "" {
		t.Errorf("Listen() = %q, want empty", got)
	}
	if len(recorder.windows) != 1 {
		t.Errorf("recorded %d windows, want 1", len(recorder.windows))
	}
	if len(player.played) != 1 || player.played[0] != msgServiceError {
		t.Errorf("played = %q", player.played)
	}
}

func TestListenRetryPolicyStops(t *testing.T) {
	a, _, recorder, _ := newTestAdapter(
		t,
		recognition{err: stt.ErrAmbiguousAudio},
		recognition{err: stt.ErrAmbiguousAudio},
	)
	a.Retry = RetryPolicy{MaxAttempts: 2}

	_, err := a.Listen(context.Background())
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("Listen() error = %v, want ErrTooManyAttempts", err)
	}
	if len(recorder.windows) != 2 {
		t.Errorf("recorded %d windows, want 2", len(recorder.windows))
	}
}

func TestListenOtherErrorsSurface(t *testing.T) {
	boom := errors.New("boom")
	a, _, _, _ := newTestAdapter(t, recognition{err: boom})

	if _, err := a.Listen(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Listen() error = %v, want boom", err)
	}
}

func TestKeyboardSpeakWithoutMouth(t *testing.T) {
	k := NewKeyboard(nil)
	if err := k.Speak(context.Background(), "anything"); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
}
