// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// IntReader is the read side of the go-audio container decoders
// (wav.Decoder, aiff.Decoder).
type IntReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// IntSource adapts an IntReader to Source. Samples of bitDepth bits are
// scaled by 2^(bitDepth-1), so the most negative value maps to exactly -1.
type IntSource struct {
	r          IntReader
	sampleRate int
	channels   int
	scale      float32
	offset     float32
	buf        *goaudio.IntBuffer
	done       bool
}

// NewIntSource reads r as bitDepth-bit samples. Unsigned samples, as 8-bit
// WAV stores them, are centred on zero first.
func NewIntSource(r IntReader, bitDepth int, unsigned bool) *IntSource {
	s := &IntSource{
		r:     r,
		scale: float32(goaudio.IntMaxSignedValue(bitDepth)) + 1,
	}
	if f := r.Format(); f != nil {
		s.sampleRate, s.channels = f.SampleRate, f.NumChannels
	}
	if unsigned {
		s.offset = s.scale
	}
	return s
}

func (s *IntSource) SampleRate() int { return s.sampleRate }
func (s *IntSource) Channels() int   { return s.channels }
func (s *IntSource) Close() error    { return nil }

// BufSize reports the size of the last read, 4096 before the first one.
func (s *IntSource) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

// ReadSamples returns data the reader delivered along with io.EOF and
// reports io.EOF on the following call.
func (s *IntSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{Data: make([]int, len(dst)), Format: s.r.Format()}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.r.PCMBuffer(s.buf)
	if errors.Is(err, io.EOF) {
		s.done, err = true, nil
	}
	if err != nil {
		err = fmt.Errorf("read samples: %w", err)
		if n == 0 {
			return 0, err
		}
	}
	if n == 0 {
		s.done = true
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = (float32(v) - s.offset) / s.scale
	}
	return n, err
}
