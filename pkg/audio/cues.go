package audio

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
)

var cueFormat = wavFormat{SampleRate: 44100, Channels: 1, BitDepth: 16}

// tone is a run of identical beeps
type tone struct {
	freq  float64
	beeps int
	beep  time.Duration
	gap   time.Duration
}

var cueTones = map[models.Urgency]tone{
	models.UrgencyLow:    {freq: 660, beeps: 1, beep: 200 * time.Millisecond},
	models.UrgencyNormal: {freq: 880, beeps: 2, beep: 150 * time.Millisecond, gap: 100 * time.Millisecond},
	models.UrgencyHigh:   {freq: 1320, beeps: 3, beep: 120 * time.Millisecond, gap: 80 * time.Millisecond},
}

var fallbackTone = tone{freq: 440, beeps: 1, beep: 250 * time.Millisecond}

// synthesize renders t as 16-bit mono PCM with a short fade at each edge
func synthesize(t tone) []byte {
	rate := float64(cueFormat.SampleRate)
	beepSamples := int(t.beep.Seconds() * rate)
	gapSamples := int(t.gap.Seconds() * rate)
	fade := beepSamples / 10

	total := t.beeps*beepSamples + (t.beeps-1)*gapSamples
	if total < 0 {
		total = 0
	}
	pcm := make([]byte, 0, total*2)

	for b := 0; b < t.beeps; b++ {
		if b > 0 {
			pcm = append(pcm, make([]byte, gapSamples*2)...)
		}
		for i := 0; i < beepSamples; i++ {
			amp := 0.4
			if fade > 0 {
				if i < fade {
					amp *= float64(i) / float64(fade)
				} else if beepSamples-i < fade {
					amp *= float64(beepSamples-i) / float64(fade)
				}
			}
			v := int16(amp * math.MaxInt16 * math.Sin(2*math.Pi*t.freq*float64(i)/rate))
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(v))
		}
	}
	return pcm
}

// CuePlayer plays one short clip per urgency
type CuePlayer struct {
	cues     map[models.Urgency][]byte
	fallback []byte
	logger   *slog.Logger

	mu      sync.Mutex
	current *Player
}

// NewCuePlayer builds the cue set. Entries in overrides are WAV file paths
// replacing the synthesized cue of that urgency; unusable files are logged
// and ignored.
func NewCuePlayer(overrides map[models.Urgency]string, logger *slog.Logger) *CuePlayer {
	if logger == nil {
		logger = slog.Default()
	}
	cp := &CuePlayer{
		cues:     make(map[models.Urgency][]byte, len(cueTones)),
		fallback: encodeWAV(cueFormat, synthesize(fallbackTone)),
		logger:   logger,
	}
	for u, t := range cueTones {
		cp.cues[u] = encodeWAV(cueFormat, synthesize(t))
	}

	for u, path := range overrides {
		if path == "" {
			continue
		}
		data, err := loadCueFile(path)
		if err != nil {
			logger.Warn("sound override ignored", "urgency", u, "path", path, "error", err)
			continue
		}
		cp.cues[u] = data
	}
	return cp
}

func loadCueFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format, _, err := parseWAV(data)
	if err != nil {
		return nil, err
	}
	if err := format.validate(); err != nil {
		return nil, err
	}
	if *format != cueFormat {
		return nil, fmt.Errorf("%w: want %d Hz %d channel", ErrFormatMismatch, cueFormat.SampleRate, cueFormat.Channels)
	}
	return data, nil
}

// Cue returns the WAV clip for an urgency, or the fallback clip
func (cp *CuePlayer) Cue(u models.Urgency) []byte {
	if data, ok := cp.cues[u]; ok {
		return data
	}
	return cp.fallback
}

// PlayCue starts the cue for u, cutting off a cue that is still playing
func (cp *CuePlayer) PlayCue(u models.Urgency) {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	cp.current.Stop()
	p, err := Play(cp.Cue(u), false)
	if err != nil {
		cp.logger.Warn("play sound cue", "urgency", u, "error", err)
		cp.current = nil
		return
	}
	cp.current = p
}

// Stop silences the current cue
func (cp *CuePlayer) Stop() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.current.Stop()
	cp.current = nil
}
