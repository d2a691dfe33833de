// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/cafplay/audio"
)

// source serves the samples of an LPCM data chunk as audio.Source.
type source struct {
	data       []byte
	offset     int
	order      binary.ByteOrder
	isFloat    bool
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) bytesPerSample() int { return s.bitDepth / 8 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	width := s.bytesPerSample()
	n := min(len(dst), (len(s.data)-s.offset)/width)
	if n == 0 {
		return 0, io.EOF
	}

	if s.isFloat {
		for i := range n {
			dst[i] = s.sampleFloat(s.data[s.offset+i*width:])
		}
	} else {
		s.readInts(n)
		maxVal := float32(int64(1) << (s.bitDepth - 1))
		for i := range n {
			dst[i] = float32(s.intBuf.Data[i]) / maxVal
		}
	}
	s.offset += n * width

	if s.offset+width > len(s.data) {
		return n, io.EOF
	}
	return n, nil
}

func (s *source) readInts(n int) {
	if s.intBuf == nil || cap(s.intBuf.Data) < n {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, n),
			Format:         &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
			SourceBitDepth: s.bitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:n]

	width := s.bytesPerSample()
	for i := range n {
		s.intBuf.Data[i] = s.sampleInt(s.data[s.offset+i*width:])
	}
}

func (s *source) sampleInt(b []byte) int {
	switch s.bitDepth {
	case 8:
		return int(int8(b[0]))
	case 16:
		return int(int16(s.order.Uint16(b)))
	case 24:
		var v int32
		if s.order == binary.BigEndian {
			v = int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
		} else {
			v = int32(b[2])<<16 | int32(b[1])<<8 | int32(b[0])
		}
		// sign-extend from 24 bits
		return int((v << 8) >> 8)
	default:
		return int(int32(s.order.Uint32(b)))
	}
}

func (s *source) sampleFloat(b []byte) float32 {
	if s.bitDepth == 64 {
		return float32(math.Float64frombits(s.order.Uint64(b)))
	}
	return math.Float32frombits(s.order.Uint32(b))
}

// Decoder turns a CAF stream holding linear PCM into an audio.Source.
// Integer samples of 8, 16, 24 or 32 bits and float samples of 32 or 64 bits
// are supported, in either byte order. The data chunk's edit count is
// skipped.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	desc, data, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("decode CAF: %w", err)
	}

	if err := checkDecodable(desc); err != nil {
		return nil, err
	}

	if len(data) < EditCountSize {
		return nil, fmt.Errorf("data chunk of %d bytes has no edit count: %w", len(data), ErrTruncated)
	}

	var order binary.ByteOrder = binary.BigEndian
	if desc.IsLittleEndian() {
		order = binary.LittleEndian
	}

	return &source{
		data:       data[EditCountSize:],
		order:      order,
		isFloat:    desc.IsFloat(),
		sampleRate: int(desc.SampleRate),
		channels:   int(desc.ChannelsPerFrame),
		bitDepth:   int(desc.BitsPerChannel),
	}, nil
}

func checkDecodable(d Descriptor) error {
	if d.FormatID != FormatLinearPCM {
		return fmt.Errorf("format %q: %w", d.FormatID.String(), ErrUnsupportedFormat)
	}
	if d.SampleRate <= 0 || d.ChannelsPerFrame <= 0 {
		return fmt.Errorf("sample rate %v with %d channels: %w", d.SampleRate, d.ChannelsPerFrame, ErrUnsupportedFormat)
	}

	switch bits := d.BitsPerChannel; {
	case d.IsFloat() && (bits == 32 || bits == 64):
	case !d.IsFloat() && (bits == 8 || bits == 16 || bits == 24 || bits == 32):
	default:
		return fmt.Errorf("%d bit samples (float=%v): %w", bits, d.IsFloat(), ErrUnsupportedFormat)
	}
	return nil
}
