// Package audio plays urgency cues through oto.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton. oto allows one context per process, so the
// first format played fixes the output format.
var (
	globalAudioCtx     *oto.Context
	globalAudioFormat  wavFormat
	globalAudioCtxOnce sync.Once
	globalAudioCtxErr  error
)

// ErrFormatMismatch is returned when a clip does not match the open audio context
var ErrFormatMismatch = errors.New("wav format differs from audio context")

// Player controls one playback
type Player struct {
	stopChan chan struct{}
	player   *oto.Player
	stopped  bool
	mu       sync.Mutex
	done     chan struct{}
}

func initAudioContext(format wavFormat) error {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioCtxErr = fmt.Errorf("init audio context: %w", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		globalAudioFormat = format
		slog.Debug("audio context initialized", "sample_rate", format.SampleRate, "channels", format.Channels)
	})
	if globalAudioCtxErr != nil {
		return globalAudioCtxErr
	}
	if format != globalAudioFormat {
		return ErrFormatMismatch
	}
	return nil
}

// Play starts the WAV clip and returns without waiting. With loop set the
// clip repeats until Stop.
func Play(wavData []byte, loop bool) (*Player, error) {
	format, audioData, err := parseWAV(wavData)
	if err != nil {
		return nil, err
	}
	if err := format.validate(); err != nil {
		return nil, err
	}
	if err := initAudioContext(*format); err != nil {
		return nil, err
	}

	p := &Player{
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.playLoop(audioData, loop)
	return p, nil
}

func (p *Player) playLoop(audioData []byte, loop bool) {
	defer close(p.done)

	for {
		pl := globalAudioCtx.NewPlayer(bytes.NewReader(audioData))
		p.mu.Lock()
		p.player = pl
		p.mu.Unlock()

		pl.Play()

		// Wait for the clip to finish or a stop signal
		for pl.IsPlaying() {
			select {
			case <-p.stopChan:
				pl.Pause()
				pl.Close()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}

		if err := pl.Close(); err != nil {
			slog.Warn("close audio player", "error", err)
		}

		if !loop {
			return
		}
		select {
		case <-p.stopChan:
			return
		default:
		}
	}
}

// Wait blocks until playback ends
func (p *Player) Wait() {
	if p == nil {
		return
	}
	<-p.done
}

// Stop stops playback
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)
		if p.player != nil {
			p.player.Pause()
		}
	}
}
