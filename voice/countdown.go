package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const countdownTick = 100 * time.Millisecond

var countdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type tickMsg time.Time

// recordedMsg tells the countdown the recorder returned.
type recordedMsg struct{}

// countdown draws the recording window as a draining progress bar.
type countdown struct {
	window   time.Duration
	elapsed  time.Duration
	progress progress.Model
}

func newCountdown(window time.Duration) countdown {
	return countdown{
		window: window,
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
	}
}

func (m countdown) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(countdownTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m countdown) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		m.elapsed += countdownTick
		if m.elapsed >= m.window {
			m.elapsed = m.window
			return m, tea.Quit
		}
		return m, tick()
	case recordedMsg:
		m.elapsed = m.window
		return m, tea.Quit
	}
	return m, nil
}

// remaining is the share of the window still to be recorded.
func (m countdown) remaining() float64 {
	if m.window <= 0 {
		return 0
	}
	return 1 - float64(m.elapsed)/float64(m.window)
}

func (m countdown) View() string {
	left := (m.window - m.elapsed).Round(time.Second)
	return fmt.Sprintf(
		"%s %s\n",
		m.progress.ViewAs(m.remaining()),
		countdownStyle.Render(left.String()),
	)
}

// record runs the recorder, drawing the countdown beside it when enabled.
func (a *Adapter) record(ctx context.Context) ([]byte, error) {
	if !a.Countdown {
		return a.recorder.Record(ctx, a.Window)
	}

	p := tea.NewProgram(
		newCountdown(a.Window),
		tea.WithContext(ctx),
		tea.WithOutput(a.Console),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	shown := make(chan struct{})
	go func() {
		defer close(shown)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			a.hearLog.Debug("countdown", "error", err.Error())
		}
	}()

	pcm, err := a.recorder.Record(ctx, a.Window)
	p.Send(recordedMsg{})
	<-shown
	return pcm, err
}
