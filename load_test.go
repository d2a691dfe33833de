// SPDX-License-Identifier: EPL-2.0

package cafplay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/formats/wav"
	"github.com/ik5/cafplay/internal/audiotest"
	"github.com/ik5/cafplay/playback"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func newManager(t *testing.T) (*playback.Manager, *audiotest.Backend) {
	t.Helper()

	logger, _ := logtest.NewNullLogger()
	backend := audiotest.NewBackend()
	m, err := playback.Open(backend, playback.WithLogger(logger))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { m.Cleanup() })
	return m, backend
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_CAFPassesPayloadThrough(t *testing.T) {
	t.Parallel()

	m, backend := newManager(t)

	// 8-bit stereo stays raw: no decode, no conversion.
	payload := []byte{1, 2, 3, 4, 5, 6}
	path := writeFile(t, "clip.caf", audiotest.CAF(audiotest.LPCMDescriptor(11025, 2, 8), payload))

	if err := LoadFile(m, NewRegistry(), path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	buf, ok := backend.SoleBuffer()
	if !ok {
		t.Fatal("no buffer")
	}
	if buf.Format != audio.Stereo8 || buf.SampleRate != 11025 || string(buf.Data) != string(payload) {
		t.Errorf("buffer = %v %d Hz %v", buf.Format, buf.SampleRate, buf.Data)
	}
}

func TestLoadFile_WAVIsDecoded(t *testing.T) {
	t.Parallel()

	m, backend := newManager(t)

	var file audiotest.WriteSeeker
	if err := wav.WriteWAV16(&file, 16000, 1, []int16{100, -100, 200}); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	path := writeFile(t, "clip.wav", file.Bytes())

	if err := LoadFile(m, NewRegistry(), path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	buf, _ := backend.SoleBuffer()
	if buf.Format != audio.Mono16 || buf.SampleRate != 16000 {
		t.Errorf("buffer = %v %d Hz", buf.Format, buf.SampleRate)
	}
	if string(buf.Data) != string(audiotest.PCM16(100, -100, 200)) {
		t.Errorf("buffer data = %v", buf.Data)
	}
	if info, ok := m.Loaded(); !ok || info.SampleRate != 16000 {
		t.Errorf("Loaded() = %+v, %v", info, ok)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	m, backend := newManager(t)
	empty := audio.NewRegistry()

	tests := []struct {
		name string
		reg  Registry
		path string
		want error
	}{
		{"unknown extension", NewRegistry(), "notes.txt", ErrUnknownFormat},
		{"decoder missing", empty, writeFile(t, "a.wav", []byte("RIFF")), ErrUnknownFormat},
		{"missing file", NewRegistry(), filepath.Join(t.TempDir(), "gone.wav"), os.ErrNotExist},
		{"bad wav", NewRegistry(), writeFile(t, "b.wav", []byte("not a wav at all")), wav.ErrNotWavFile},
	}

	for _, tt := range tests {
		if err := LoadFile(m, tt.reg, tt.path); !errors.Is(err, tt.want) {
			t.Errorf("%s: LoadFile() error = %v, want %v", tt.name, err, tt.want)
		}
	}

	if _, ok := m.Loaded(); ok {
		t.Error("a failed load left a buffer loaded")
	}
	if buf, _ := backend.SoleBuffer(); buf.Data != nil {
		t.Errorf("backend buffer filled: %v", buf.Data)
	}
}

func TestDecodeFile_Resample(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 1600)
	for i := range samples {
		samples[i] = int16(i % 100 * 100)
	}
	var file audiotest.WriteSeeker
	if err := wav.WriteWAV16(&file, 16000, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	path := writeFile(t, "ramp.wav", file.Bytes())

	tests := []struct {
		rate     int
		wantRate int
		minBytes int
		maxBytes int
	}{
		{0, 16000, 3200, 3200},
		{16000, 16000, 3200, 3200},
		{8000, 8000, 1580, 1600},
	}

	for _, tt := range tests {
		format, data, rate, err := DecodeFile(NewRegistry(), path, tt.rate)
		if err != nil {
			t.Fatalf("DecodeFile(%d) error = %v", tt.rate, err)
		}
		if format != audio.Mono16 || rate != tt.wantRate {
			t.Errorf("DecodeFile(%d) = %v at %d Hz, want Mono16 at %d Hz", tt.rate, format, rate, tt.wantRate)
		}
		if len(data) < tt.minBytes || len(data) > tt.maxBytes {
			t.Errorf("DecodeFile(%d) returned %d bytes, want %d..%d", tt.rate, len(data), tt.minBytes, tt.maxBytes)
		}
	}
}
