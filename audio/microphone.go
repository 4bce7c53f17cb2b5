package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/malgo"
)

// Microphone records fixed windows from the default capture device.
type Microphone struct {
	ctx    *malgo.AllocatedContext
	format Format
	log    *log.Logger
}

func NewMicrophone(format Format, logger *log.Logger) (*Microphone, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	return &Microphone{ctx: ctx, format: format, log: logger}, nil
}

func (m *Microphone) Format() Format {
	return m.format
}

// Record blocks for the whole window and returns the captured PCM.
func (m *Microphone) Record(
	ctx context.Context,
	window time.Duration,
) ([]byte, error) {
	want := int(window.Seconds() * float64(m.format.BytesPerSecond()))
	want -= want % (2 * m.format.Channels)

	var (
		mu   sync.Mutex
		buf  = make([]byte, 0, want)
		done = make(chan struct{})
		once sync.Once
	)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(m.format.Channels)
	deviceConfig.SampleRate = uint32(m.format.SampleRate)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			mu.Lock()
			defer mu.Unlock()
			if len(buf) >= want {
				return
			}
			n := min(len(input), want-len(buf))
			buf = append(buf, input[:n]...)
			if len(buf) >= want {
				once.Do(func() { close(done) })
			}
		},
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("init microphone: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return nil, fmt.Errorf("start microphone: %w", err)
	}
	m.log.Debug("record", "window", window, "rate", m.format.SampleRate)

	select {
	case <-done:
	case <-ctx.Done():
		return nil, m.abandon(ctx, device.Stop)
	}

	if err := device.Stop(); err != nil {
		return nil, fmt.Errorf("stop microphone: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return buf, nil
}

// abandon stops a recording cut short by ctx. The stop error is only logged
// since the caller already gets the cancellation.
func (m *Microphone) abandon(ctx context.Context, stop func() error) error {
	if err := stop(); err != nil {
		m.log.Warn("stop microphone", "error", err)
	}
	return ctx.Err()
}

func (m *Microphone) Close() error {
	if err := m.ctx.Uninit(); err != nil {
		return err
	}
	m.ctx.Free()
	return nil
}
