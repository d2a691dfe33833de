// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

func encodeCAF(t *testing.T, d Descriptor, pcm []byte) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	if err := Encode(&buf, d, WithEditCount(pcm)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return &buf
}

func lpcm(rate float64, channels, bits int32, flags int32) Descriptor {
	return Descriptor{
		SampleRate:       rate,
		FormatID:         FormatLinearPCM,
		FormatFlags:      flags,
		BytesPerPacket:   channels * bits / 8,
		FramesPerPacket:  1,
		ChannelsPerFrame: channels,
		BitsPerChannel:   bits,
	}
}

func readAll(t *testing.T, dec Decoder, r io.Reader) ([]float32, int, int) {
	t.Helper()

	src, err := dec.Decode(r)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	var out []float32
	buf := make([]float32, 3)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	return out, src.SampleRate(), src.Channels()
}

func TestDecoder_Int16(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768}

	tests := []struct {
		name  string
		flags int32
		order binary.ByteOrder
	}{
		{"little endian", FlagIsLittleEndian, binary.LittleEndian},
		{"big endian", 0, binary.BigEndian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pcm := make([]byte, len(samples)*2)
			for i, s := range samples {
				tt.order.PutUint16(pcm[i*2:], uint16(s))
			}

			out, rate, channels := readAll(t, Decoder{}, encodeCAF(t, lpcm(22050, 1, 16, tt.flags), pcm))

			if rate != 22050 || channels != 1 {
				t.Errorf("metadata = (%d Hz, %d ch), want (22050 Hz, 1 ch)", rate, channels)
			}

			want := []float32{0, 0.5, -0.5, 0.99997, -1}
			if len(out) != len(want) {
				t.Fatalf("got %d samples, want %d", len(out), len(want))
			}
			for i := range want {
				if math.Abs(float64(out[i]-want[i])) > 0.001 {
					t.Errorf("out[%d] = %v, want ≈%v", i, out[i], want[i])
				}
			}
		})
	}
}

func TestDecoder_OtherDepths(t *testing.T) {
	t.Parallel()

	f32 := make([]byte, 8)
	binary.BigEndian.PutUint32(f32, math.Float32bits(0.25))
	binary.BigEndian.PutUint32(f32[4:], math.Float32bits(-0.75))

	f64 := make([]byte, 8)
	binary.LittleEndian.PutUint64(f64, math.Float64bits(0.5))

	tests := []struct {
		name string
		desc Descriptor
		pcm  []byte
		want []float32
	}{
		{"signed 8-bit", lpcm(8000, 1, 8, 0), []byte{0x40, 0xc0}, []float32{0.5, -0.5}},
		{"24-bit big endian", lpcm(48000, 1, 24, 0), []byte{0x40, 0x00, 0x00, 0xc0, 0x00, 0x00}, []float32{0.5, -0.5}},
		{"24-bit little endian", lpcm(48000, 1, 24, FlagIsLittleEndian), []byte{0x00, 0x00, 0xc0}, []float32{-0.5}},
		{"32-bit", lpcm(48000, 1, 32, 0), []byte{0x40, 0, 0, 0}, []float32{0.5}},
		{"float32", lpcm(48000, 2, 32, FlagIsFloat), f32, []float32{0.25, -0.75}},
		{"float64", lpcm(48000, 1, 64, FlagIsFloat|FlagIsLittleEndian), f64, []float32{0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, _, _ := readAll(t, Decoder{}, encodeCAF(t, tt.desc, tt.pcm))
			if len(out) != len(tt.want) {
				t.Fatalf("got %d samples, want %d", len(out), len(tt.want))
			}
			for i := range tt.want {
				if math.Abs(float64(out[i]-tt.want[i])) > 1e-6 {
					t.Errorf("out[%d] = %v, want %v", i, out[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_IgnoresTrailingPartialSample(t *testing.T) {
	t.Parallel()

	out, _, _ := readAll(t, Decoder{}, encodeCAF(t, lpcm(8000, 1, 16, FlagIsLittleEndian), []byte{0, 0x40, 0x01}))
	if len(out) != 1 {
		t.Errorf("got %d samples, want 1", len(out))
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input func(t *testing.T) io.Reader
		want  error
	}{
		{
			"not caf",
			func(t *testing.T) io.Reader { return bytes.NewReader([]byte("RIFF....WAVE")) },
			ErrBadMagic,
		},
		{
			"compressed",
			func(t *testing.T) io.Reader {
				d := lpcm(44100, 2, 0, 0)
				d.FormatID = NewFourCC("aac ")
				return encodeCAF(t, d, nil)
			},
			ErrUnsupportedFormat,
		},
		{
			"float16",
			func(t *testing.T) io.Reader { return encodeCAF(t, lpcm(44100, 1, 16, FlagIsFloat), nil) },
			ErrUnsupportedFormat,
		},
		{
			"no channels",
			func(t *testing.T) io.Reader { return encodeCAF(t, lpcm(44100, 0, 16, 0), nil) },
			ErrUnsupportedFormat,
		},
		{
			"missing edit count",
			func(t *testing.T) io.Reader {
				var buf bytes.Buffer
				if err := Encode(&buf, lpcm(8000, 1, 16, 0), []byte{1, 2}); err != nil {
					t.Fatal(err)
				}
				return &buf
			},
			ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(tt.input(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSource_EmptyRead(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(encodeCAF(t, lpcm(8000, 1, 16, 0), []byte{0, 1}))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d before first read, want 4096", src.BufSize())
	}
}
