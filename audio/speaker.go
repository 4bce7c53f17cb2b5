package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

// Speaker plays MP3 audio on the default output device. The output device
// is opened on first use at the sample rate of the first clip, and oto only
// allows one context per process, so later clips must share that rate.
type Speaker struct {
	otoCtx     *oto.Context
	sampleRate int
	log        *log.Logger
}

func NewSpeaker(logger *log.Logger) *Speaker {
	return &Speaker{log: logger}
}

// PlayMP3 decodes r and blocks until playback has finished.
func (s *Speaker) PlayMP3(ctx context.Context, r io.Reader) error {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}

	if err := s.open(decoder.SampleRate()); err != nil {
		return err
	}

	player := s.otoCtx.NewPlayer(decoder)
	defer player.Close()

	player.Play()
	s.log.Debug("play", "rate", decoder.SampleRate(), "bytes", decoder.Length())

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return player.Err()
}

func (s *Speaker) open(sampleRate int) error {
	if s.otoCtx != nil {
		if sampleRate != s.sampleRate {
			return fmt.Errorf(
				"speaker opened at %d Hz, clip is %d Hz",
				s.sampleRate,
				sampleRate,
			)
		}
		return nil
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2, // go-mp3 always decodes to stereo
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	<-ready

	s.otoCtx = otoCtx
	s.sampleRate = sampleRate
	return nil
}
