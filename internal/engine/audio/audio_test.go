package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/gopxl/beep/v2"
)

// fakeOutput records what the worker does with the device.
type fakeOutput struct {
	mu      sync.Mutex
	inits   int
	clears  int
	closed  bool
	played  []beep.Streamer
	initErr error
}

func (f *fakeOutput) Init(beep.SampleRate, int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeOutput) Play(s beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, s)
}

func (f *fakeOutput) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

func (f *fakeOutput) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeOutput) Lock()   {}
func (f *fakeOutput) Unlock() {}

// pcmWAV builds a mono 16-bit WAV holding the given samples.
func pcmWAV(rate int, samples []int16) []byte {
	var buf bytes.Buffer
	dataSize := len(samples) * 2
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

func startMusic(t *testing.T, out *fakeOutput) *Music {
	t.Helper()
	m := NewMusic(out, 1)
	m.Run(context.Background())
	t.Cleanup(m.Close)
	return m
}

func TestMusicLoops(t *testing.T) {
	out := &fakeOutput{}
	m := startMusic(t, out)

	m.Start(pcmWAV(int(DefaultSampleRate), []int16{1000, 2000, 3000, 4000}), "theme.wav")
	st := m.Status()
	if st.Playing != "theme.wav" || st.Err != nil {
		t.Fatalf("status = %+v", st)
	}
	if out.inits != 1 || len(out.played) != 1 {
		t.Fatalf("inits = %d, played = %d", out.inits, len(out.played))
	}

	// Ten samples from a four-sample track wrap around twice.
	buf := make([][2]float64, 10)
	n, ok := out.played[0].Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	if buf[0][0] == 0 || math.Abs(buf[4][0]-buf[0][0]) > 1e-9 || math.Abs(buf[9][0]-buf[1][0]) > 1e-9 {
		t.Errorf("samples did not loop: %v", buf)
	}
}

func TestMusicStop(t *testing.T) {
	out := &fakeOutput{}
	m := startMusic(t, out)

	m.Start(pcmWAV(int(DefaultSampleRate), []int16{1, 2}), "theme.wav")
	m.Stop()
	if st := m.Status(); st.Playing != "" {
		t.Errorf("still playing %q after Stop", st.Playing)
	}
	if out.clears != 1 {
		t.Errorf("clears = %d, want 1", out.clears)
	}

	// Restarting reuses the initialized device.
	m.Start(pcmWAV(int(DefaultSampleRate), []int16{1, 2}), "again.wav")
	if st := m.Status(); st.Playing != "again.wav" {
		t.Errorf("playing %q, want again.wav", st.Playing)
	}
	if out.inits != 1 {
		t.Errorf("inits = %d, want 1", out.inits)
	}
}

func TestMusicBadData(t *testing.T) {
	out := &fakeOutput{}
	m := startMusic(t, out)

	m.Start([]byte("not a wav file"), "broken.wav")
	st := m.Status()
	if st.Err == nil || st.Playing != "" {
		t.Errorf("status = %+v, want error and nothing playing", st)
	}
	if len(out.played) != 0 {
		t.Errorf("played %d streams", len(out.played))
	}
}

func TestMusicVolume(t *testing.T) {
	out := &fakeOutput{}
	m := startMusic(t, out)
	m.Start(pcmWAV(int(DefaultSampleRate), []int16{8192, 8192}), "theme.wav")

	m.SetVolume(2)
	if st := m.Status(); st.Volume != 1 {
		t.Errorf("volume = %v, want 1 (clamped)", st.Volume)
	}

	loud := make([][2]float64, 1)
	out.played[0].Stream(loud)

	m.SetVolume(0.5)
	m.Status()
	half := make([][2]float64, 1)
	out.played[0].Stream(half)
	if math.Abs(half[0][0]-loud[0][0]/2) > 1e-6 {
		t.Errorf("half volume sample = %v, want %v", half[0][0], loud[0][0]/2)
	}

	m.SetMuted(true)
	m.Status()
	muted := make([][2]float64, 1)
	out.played[0].Stream(muted)
	if muted[0][0] != 0 {
		t.Errorf("muted sample = %v", muted[0][0])
	}
	if st := m.Status(); !st.Muted {
		t.Error("status not muted")
	}
}

func TestMusicClose(t *testing.T) {
	out := &fakeOutput{}
	m := NewMusic(out, 1)
	m.Run(context.Background())
	m.Start(pcmWAV(int(DefaultSampleRate), []int16{1}), "theme.wav")
	m.Close()
	m.Close()

	if !out.closed {
		t.Error("device not closed")
	}
	if st := m.Status(); st != (Status{}) {
		t.Errorf("status after close = %+v", st)
	}
	// Sends after close must not block.
	m.Stop()
}

func TestMusicContextCancel(t *testing.T) {
	out := &fakeOutput{}
	m := NewMusic(out, 1)
	ctx, cancel := context.WithCancel(context.Background())
	m.Run(ctx)
	m.Start(pcmWAV(int(DefaultSampleRate), []int16{1}), "theme.wav")
	m.Status()
	cancel()
	m.Close()
	if !out.closed {
		t.Error("device not closed after cancel")
	}
}

func TestCloseWithoutRun(t *testing.T) {
	m := NewMusic(&fakeOutput{}, 1)
	m.Close()
}

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -100},
	}
	for _, tt := range tests {
		if got := volumeToExponent(tt.vol); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeToExponent(%v) = %v, want %v", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{math.NaN(), 0, 1, 0},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
