package voice

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestCountdownUpdate(t *testing.T) {
	t.Run("ticks until the window is over", func(t *testing.T) {
		var m tea.Model = newCountdown(3 * countdownTick)
		for i := 1; i <= 3; i++ {
			var cmd tea.Cmd
			m, cmd = m.Update(tickMsg(time.Now()))
			if cmd == nil {
				t.Fatalf("tick %d returned no command", i)
			}
			if i == 3 {
				if _, ok := cmd().(tea.QuitMsg); !ok {
					t.Errorf("last tick did not quit")
				}
			}
		}
		if got := m.(countdown).remaining(); got != 0 {
			t.Errorf("remaining = %v, want 0", got)
		}
	})

	t.Run("recorder finishing quits early", func(t *testing.T) {
		m, cmd := newCountdown(7*time.Second).Update(recordedMsg{})
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("recordedMsg did not quit")
		}
		if got := m.(countdown).remaining(); got != 0 {
			t.Errorf("remaining = %v, want 0", got)
		}
	})
}

func TestCountdownView(t *testing.T) {
	m := newCountdown(7 * time.Second)
	if got := m.remaining(); got != 1 {
		t.Errorf("remaining = %v, want 1", got)
	}
	if view := m.View(); !strings.Contains(view, "7s") {
		t.Errorf("view = %q", view)
	}

	m.elapsed = 5 * time.Second
	if view := m.View(); !strings.Contains(view, "2s") {
		t.Errorf("view = %q", view)
	}

	if got := newCountdown(0).remaining(); got != 0 {
		t.Errorf("empty window remaining = %v", got)
	}
}

func TestListenWithCountdown(t *testing.T) {
	a, _, recorder, console := newTestAdapter(t, recognition{text: "Behavioral"})
	a.Countdown = true

	got, err := a.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if got != "Behavioral" {
		t.Errorf("Listen() = %q", got)
	}
	if len(recorder.windows) != 1 || recorder.windows[0] != DefaultWindow {
		t.Errorf("windows = %v", recorder.windows)
	}
	if !strings.Contains(console.String(), "You said: Behavioral") {
		t.Errorf("console =\n%s", console.String())
	}
}
