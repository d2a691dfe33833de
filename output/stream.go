// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/utils"
)

// pcmSource reads a buffer's bytes as an audio.Source. 8-bit samples are
// unsigned, 16-bit samples signed little-endian. When looping it wraps to
// the first frame instead of ending.
type pcmSource struct {
	data    []byte
	format  audio.PCMFormat
	info    *goaudio.Format
	pos     int
	looping bool
}

func newPCMSource(b *buffer) *pcmSource {
	return &pcmSource{
		data:   b.data,
		format: b.format,
		info:   b.format.GoAudioFormat(b.sampleRate),
	}
}

func (s *pcmSource) SampleRate() int { return s.info.SampleRate }
func (s *pcmSource) Channels() int   { return s.info.NumChannels }
func (s *pcmSource) BufSize() int    { return 4096 }
func (s *pcmSource) Close() error    { return nil }

func (s *pcmSource) ReadSamples(dst []float32) (int, error) {
	width := s.format.BitDepth() / 8
	usable := len(s.data) - len(s.data)%s.format.FrameSize()

	n := 0
	for n < len(dst) {
		if s.pos+width > usable {
			if !s.looping || usable == 0 {
				break
			}
			s.pos = 0
		}

		if width == 1 {
			dst[n] = (float32(s.data[s.pos]) - 128) / 128
		} else {
			dst[n] = float32(int16(binary.LittleEndian.Uint16(s.data[s.pos:]))) / 32768
		}
		s.pos += width
		n++
	}

	if n == 0 && len(dst) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// stream renders a buffer as 16-bit little-endian PCM in the device layout.
// The oto player reads it from its own goroutine, so every field is guarded
// by mu.
type stream struct {
	mu sync.Mutex

	buf            *buffer
	deviceRate     int
	deviceChannels int

	pcm       *pcmSource
	resampler *audio.Resampler
	out       audio.Source
	floats    []float32

	looping bool
	pitch   float64
}

func newStream(b *buffer, deviceRate, deviceChannels int) *stream {
	s := &stream{
		buf:            b,
		deviceRate:     deviceRate,
		deviceChannels: deviceChannels,
		pitch:          1,
	}
	s.rewind()
	return s
}

// rewind rebuilds the chain so the resampler's frame history starts clean.
func (s *stream) rewind() {
	s.pcm = newPCMSource(s.buf)
	s.pcm.looping = s.looping

	s.resampler = audio.NewResampler(s.pcm, s.deviceRate)
	_ = s.resampler.SetSpeed(s.pitch)

	switch {
	case s.pcm.Channels() == s.deviceChannels:
		s.out = s.resampler
	case s.deviceChannels == 1:
		s.out = audio.NewMonoMixer(s.resampler)
	default:
		s.out = audio.NewUpmixer(s.resampler, s.deviceChannels)
	}
}

func (s *stream) setLooping(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.looping = loop
	s.pcm.looping = loop
}

func (s *stream) setPitch(pitch float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resampler.SetSpeed(pitch); err != nil {
		return err
	}
	s.pitch = pitch
	return nil
}

func (s *stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frameBytes := 2 * s.deviceChannels
	samples := len(p) / frameBytes * s.deviceChannels
	if samples == 0 {
		return 0, nil
	}
	if cap(s.floats) < samples {
		s.floats = make([]float32, samples)
	}
	s.floats = s.floats[:samples]

	n, err := s.out.ReadSamples(s.floats)
	for i := range n {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(utils.Float32ToInt16(s.floats[i])))
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return n * 2, err
	}
	if n == 0 && err != nil {
		return 0, io.EOF
	}
	return n * 2, nil
}

var errSeekUnsupported = errors.New("stream can only seek to its start")

// Seek supports rewinding to the start, which is all Stop needs.
func (s *stream) Seek(offset int64, whence int) (int64, error) {
	if offset != 0 || whence != io.SeekStart {
		return 0, errSeekUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rewind()
	return 0, nil
}
