// Package audio plays the looping background music. All beep state lives on
// one worker goroutine; callers talk to it only through messages.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/logger"
)

// DefaultSampleRate is the output sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Output is the sound device. The speaker package satisfies it through
// SpeakerOutput.
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Close()
	Lock()
	Unlock()
}

// SpeakerOutput plays through the system speaker.
type SpeakerOutput struct{}

func (SpeakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (SpeakerOutput) Clear()               { speaker.Clear() }
func (SpeakerOutput) Close()               { speaker.Close() }
func (SpeakerOutput) Lock()                { speaker.Lock() }
func (SpeakerOutput) Unlock()              { speaker.Unlock() }

// Status is a snapshot of the worker state.
type Status struct {
	Playing string
	Volume  float64
	Muted   bool
	Err     error
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdStop
	cmdVolume
	cmdMute
	cmdStatus
	cmdQuit
)

type command struct {
	kind   commandKind
	data   []byte
	name   string
	volume float64
	muted  bool
	reply  chan Status
}

// Music owns the background music worker. Commands sent before Run wait
// in a small queue.
type Music struct {
	out  Output
	log  *zap.Logger
	cmds chan command
	done chan struct{}

	startOnce sync.Once
	closeOnce sync.Once

	// Worker-owned state.
	initialized bool
	track       *track
	volume      float64
	muted       bool
	lastErr     error
}

type track struct {
	name     string
	streamer beep.StreamSeekCloser
	gain     *effects.Volume
}

// NewMusic creates a stopped worker. A nil out plays through the speaker.
func NewMusic(out Output, volume float64) *Music {
	if out == nil {
		out = SpeakerOutput{}
	}
	return &Music{
		out:    out,
		log:    logger.Named("audio"),
		cmds:   make(chan command, 8),
		done:   make(chan struct{}),
		volume: clamp(volume, 0, 1),
	}
}

// Run starts the worker. It stops when ctx is cancelled or Close is called.
func (m *Music) Run(ctx context.Context) {
	m.startOnce.Do(func() {
		go m.loop(ctx)
	})
}

// Start plays WAV data in a loop, replacing any current track.
func (m *Music) Start(data []byte, name string) {
	m.send(command{kind: cmdStart, data: data, name: name})
}

// Stop silences the current track. The worker keeps running.
func (m *Music) Stop() {
	m.send(command{kind: cmdStop})
}

// SetVolume sets the volume in [0, 1].
func (m *Music) SetVolume(v float64) {
	m.send(command{kind: cmdVolume, volume: v})
}

// SetMuted mutes or unmutes the music.
func (m *Music) SetMuted(muted bool) {
	m.send(command{kind: cmdMute, muted: muted})
}

// Status asks the worker for its state. After the worker has exited it
// returns the zero Status.
func (m *Music) Status() Status {
	reply := make(chan Status, 1)
	if !m.send(command{kind: cmdStatus, reply: reply}) {
		return Status{}
	}
	select {
	case s := <-reply:
		return s
	case <-m.done:
		return Status{}
	}
}

// Close stops the worker and waits for it to release the device.
func (m *Music) Close() {
	// A worker that never ran has nothing to release.
	m.startOnce.Do(func() { close(m.done) })
	m.closeOnce.Do(func() {
		m.send(command{kind: cmdQuit})
	})
	<-m.done
}

// send delivers c unless the worker has exited.
func (m *Music) send(c command) bool {
	select {
	case m.cmds <- c:
		return true
	case <-m.done:
		return false
	}
}

func (m *Music) loop(ctx context.Context) {
	defer close(m.done)
	defer m.shutdown()

	m.log.Debug("music worker started")
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-m.cmds:
			switch c.kind {
			case cmdStart:
				m.play(c.data, c.name)
			case cmdStop:
				m.stopTrack()
			case cmdVolume:
				m.volume = clamp(c.volume, 0, 1)
				m.applyGain()
			case cmdMute:
				m.muted = c.muted
				m.applyGain()
			case cmdStatus:
				c.reply <- m.status()
			case cmdQuit:
				return
			}
		}
	}
}

func (m *Music) status() Status {
	s := Status{Volume: m.volume, Muted: m.muted, Err: m.lastErr}
	if m.track != nil {
		s.Playing = m.track.name
	}
	return s
}

func (m *Music) play(data []byte, name string) {
	m.stopTrack()
	m.lastErr = nil

	if !m.initialized {
		if err := m.out.Init(DefaultSampleRate, DefaultSampleRate.N(time.Second/30)); err != nil {
			m.fail(fmt.Errorf("init speaker: %w", err), name)
			return
		}
		m.initialized = true
	}

	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		m.fail(fmt.Errorf("decode wav: %w", err), name)
		return
	}

	var src beep.Streamer = &loopStreamer{source: streamer}
	if format.SampleRate != DefaultSampleRate {
		src = beep.Resample(4, format.SampleRate, DefaultSampleRate, src)
	}

	t := &track{
		name:     name,
		streamer: streamer,
		gain:     &effects.Volume{Streamer: src, Base: 2},
	}
	m.track = t
	m.applyGain()
	m.out.Play(t.gain)

	m.log.Info("music started",
		zap.String("track", name),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Float64("volume", m.volume),
	)
}

func (m *Music) fail(err error, name string) {
	m.lastErr = err
	m.log.Warn("music unavailable", zap.String("track", name), zap.Error(err))
}

func (m *Music) applyGain() {
	if m.track == nil {
		return
	}
	m.out.Lock()
	defer m.out.Unlock()
	g := m.track.gain
	g.Silent = m.muted || m.volume <= 0
	g.Volume = volumeToExponent(m.volume)
}

func (m *Music) stopTrack() {
	if m.track == nil {
		return
	}
	m.out.Clear()
	if err := m.track.streamer.Close(); err != nil {
		m.log.Debug("close track", zap.Error(err))
	}
	m.log.Info("music stopped", zap.String("track", m.track.name))
	m.track = nil
}

func (m *Music) shutdown() {
	m.stopTrack()
	if m.initialized {
		m.out.Close()
		m.initialized = false
	}
	m.log.Debug("music worker stopped")
}

// volumeToExponent converts a 0-1 volume to the base-2 exponent used by
// effects.Volume: 1 is unchanged, 0.5 is half amplitude.
func volumeToExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// loopStreamer rewinds source whenever it runs dry. It sits below any
// resampler so the resampler never sees the end of the stream.
type loopStreamer struct {
	source beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	rewound := false
	for filled < len(samples) {
		n, ok := l.source.Stream(samples[filled:])
		filled += n
		if ok && n > 0 {
			rewound = false
			continue
		}
		// A rewind that yields nothing means the source is empty or broken.
		if rewound || l.source.Len() == 0 || l.source.Seek(0) != nil {
			return filled, filled > 0
		}
		rewound = true
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}
