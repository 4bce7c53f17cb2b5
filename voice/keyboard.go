package voice

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// Keyboard takes answers typed into the terminal instead of recording them.
// Questions are still spoken when a speaking Adapter is attached.
type Keyboard struct {
	mouth   *Adapter
	Console io.Writer
}

func NewKeyboard(mouth *Adapter) *Keyboard {
	return &Keyboard{mouth: mouth, Console: os.Stdout}
}

func (k *Keyboard) Speak(ctx context.Context, text string) error {
	if k.mouth == nil {
		return nil
	}
	return k.mouth.Speak(ctx, text)
}

func (k *Keyboard) Listen(_ context.Context) (string, error) {
	var answer string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Your answer").
				Description("Type quit to end the interview").
				Value(&answer),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}

	fmt.Fprintf(k.Console, "You said: %s\n", answer)
	return answer, nil
}
