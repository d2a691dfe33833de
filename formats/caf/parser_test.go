// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

var testDescriptor = Descriptor{
	SampleRate:       22050,
	FormatID:         FormatLinearPCM,
	FormatFlags:      FlagIsLittleEndian,
	BytesPerPacket:   2,
	FramesPerPacket:  1,
	ChannelsPerFrame: 1,
	BitsPerChannel:   16,
}

func fileHeader() []byte {
	return []byte{'c', 'a', 'f', 'f', 0, 1, 0, 0}
}

func rawChunk(tag string, size int64, body []byte) []byte {
	out := append([]byte(tag), make([]byte, 8)...)
	binary.BigEndian.PutUint64(out[4:], uint64(size))
	return append(out, body...)
}

func descBody(t *testing.T, d Descriptor) []byte {
	t.Helper()

	body, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	return body
}

func container(parts ...[]byte) []byte {
	return bytes.Join(append([][]byte{fileHeader()}, parts...), nil)
}

func TestParse_DescriptorAndPayload(t *testing.T) {
	t.Parallel()

	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	input := container(
		rawChunk("desc", 32, descBody(t, testDescriptor)),
		rawChunk("data", int64(len(payload)), payload),
	)

	desc, got, err := Parse(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if desc != testDescriptor {
		t.Errorf("Parse() descriptor = %+v, want %+v", desc, testDescriptor)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Parse() payload = %v, want %v", got, payload)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		desc    Descriptor
		payload []byte
		extra   []Chunk
	}{
		{"mono16", testDescriptor, []byte{0x10, 0x00, 0xf0, 0xff}, nil},
		{
			"stereo8 with info",
			Descriptor{SampleRate: 8000, FormatID: FormatLinearPCM, BytesPerPacket: 2, FramesPerPacket: 1, ChannelsPerFrame: 2, BitsPerChannel: 8},
			[]byte{0x7f, 0x80, 0x00, 0x01},
			[]Chunk{{Type: ChunkInformation, Data: []byte("title\x00test\x00")}},
		},
		{
			"fractional rate, empty payload",
			Descriptor{SampleRate: 44099.5, FormatID: NewFourCC("ima4"), FormatFlags: -1, BytesPerPacket: 34, FramesPerPacket: 64, ChannelsPerFrame: 2},
			[]byte{},
			[]Chunk{{Type: ChunkFree, Data: make([]byte, 100)}, {Type: NewFourCC("pakt"), Data: []byte{1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, tt.desc, tt.payload, tt.extra...); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			desc, payload, err := Parse(&buf)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if desc != tt.desc {
				t.Errorf("descriptor = %+v, want %+v", desc, tt.desc)
			}
			if !bytes.Equal(payload, tt.payload) {
				t.Errorf("payload = %v, want %v", payload, tt.payload)
			}
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	input := container(
		rawChunk("desc", 32, descBody(t, testDescriptor)),
		rawChunk("data", 6, []byte{9, 8, 7, 6, 5, 4}),
	)

	d1, p1, err1 := Parse(bytes.NewReader(input))
	d2, p2, err2 := Parse(bytes.NewReader(input))
	if err1 != nil || err2 != nil {
		t.Fatalf("Parse() errors = %v, %v", err1, err2)
	}
	if d1 != d2 || !bytes.Equal(p1, p2) {
		t.Error("Parse() is not deterministic for identical input")
	}
}

func TestParse_SkipsUnknownChunks(t *testing.T) {
	t.Parallel()

	payload := []byte{0xaa, 0xbb}
	input := container(
		rawChunk("chan", 12, make([]byte, 12)),
		rawChunk("desc", 32, descBody(t, testDescriptor)),
		rawChunk("zzzz", 5, []byte("hello")),
		rawChunk("free", 0, nil),
		rawChunk("data", 2, payload),
	)

	desc, got, err := Parse(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if desc != testDescriptor {
		t.Errorf("descriptor = %+v, want %+v", desc, testDescriptor)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %v, want %v", got, payload)
	}
}

func TestParse_StopsAtDataChunk(t *testing.T) {
	t.Parallel()

	input := container(
		rawChunk("desc", 32, descBody(t, testDescriptor)),
		rawChunk("data", 2, []byte{1, 2}),
		rawChunk("pakt", 4, []byte{1, 2, 3, 4}),
	)
	r := bytes.NewReader(input)

	if _, _, err := Parse(r); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if r.Len() != 16 {
		t.Errorf("unread bytes = %d, want 16 (trailing pakt chunk)", r.Len())
	}
}

func TestParse_DataWithUnknownSize(t *testing.T) {
	t.Parallel()

	input := container(
		rawChunk("desc", 32, descBody(t, testDescriptor)),
		rawChunk("data", -1, []byte{1, 2, 3, 4, 5}),
	)

	_, payload, err := Parse(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !bytes.Equal(payload, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("payload = %v, want rest of stream", payload)
	}
}

func TestParse_DataBeforeDescriptor(t *testing.T) {
	t.Parallel()

	input := container(rawChunk("data", 2, []byte{1, 2}))

	desc, payload, err := Parse(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if desc != (Descriptor{}) {
		t.Errorf("descriptor = %+v, want zero value", desc)
	}
	if len(payload) != 2 {
		t.Errorf("len(payload) = %d, want 2", len(payload))
	}
}

func TestParse_IgnoresVersionField(t *testing.T) {
	t.Parallel()

	input := container(rawChunk("data", 1, []byte{7}))
	copy(input[4:8], []byte{0xde, 0xad, 0xbe, 0xef})

	if _, _, err := Parse(bytes.NewReader(input)); err != nil {
		t.Errorf("Parse() error = %v, want version/flags to be skipped", err)
	}
}

func TestParse_BadMagic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{"riff", []byte("RIFF\x00\x00\x00\x00WAVEfmt ")},
		{"upper case", []byte("CAFF\x00\x01\x00\x00")},
		{"short", []byte("ca")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := bytes.NewReader(tt.input)
			_, _, err := Parse(r)

			if !errors.Is(err, ErrBadMagic) {
				t.Fatalf("Parse() error = %v, want ErrBadMagic", err)
			}

			var fe *FormatError
			if !errors.As(err, &fe) || fe.Kind != BadMagic {
				t.Fatalf("Parse() error = %#v, want *FormatError with BadMagic", err)
			}

			consumed := len(tt.input) - r.Len()
			if consumed > 4 {
				t.Errorf("consumed %d bytes, want at most 4", consumed)
			}
		})
	}
}

func TestParse_MissingDataChunk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{"header only", fileHeader()},
		{"desc only", container(rawChunk("desc", 32, descBody(t, testDescriptor)))},
		{"unknown chunks only", container(rawChunk("free", 3, []byte{0, 0, 0}), rawChunk("info", 0, nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Parse(bytes.NewReader(tt.input))
			if !errors.Is(err, ErrMissingDataChunk) {
				t.Fatalf("Parse() error = %v, want ErrMissingDataChunk", err)
			}

			var fe *FormatError
			if errors.As(err, &fe) && fe.Offset != int64(len(tt.input)) {
				t.Errorf("Offset = %d, want %d", fe.Offset, len(tt.input))
			}
		})
	}
}

func TestParse_Truncated(t *testing.T) {
	t.Parallel()

	full := container(
		rawChunk("desc", 32, descBody(t, testDescriptor)),
		rawChunk("data", 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}),
	)

	tests := []struct {
		name    string
		input   []byte
		wantTag string
		wantOff int64
	}{
		{"inside file header", []byte("caff\x00"), "", 4},
		{"inside chunk tag", full[:10], "", 8},
		{"inside chunk size", full[:14], "desc", 8},
		{"inside desc body", full[:30], "desc", 8},
		{"inside data body", full[:len(full)-1], "data", 52},
		{"short desc chunk", container(rawChunk("desc", 8, make([]byte, 8)), rawChunk("data", 0, nil)), "desc", 8},
		{"inside unknown chunk", container(rawChunk("free", 100, make([]byte, 10))), "free", 8},
		{"negative size", container(rawChunk("free", -5, nil)), "free", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Parse(bytes.NewReader(tt.input))
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("Parse() error = %v, want ErrTruncated", err)
			}

			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse() error type = %T, want *FormatError", err)
			}
			if got := fe.Tag; got != (FourCC{}) && got.String() != tt.wantTag || got == (FourCC{}) && tt.wantTag != "" {
				t.Errorf("Tag = %q, want %q", got.String(), tt.wantTag)
			}
			if fe.Offset != tt.wantOff {
				t.Errorf("Offset = %d, want %d", fe.Offset, tt.wantOff)
			}
		})
	}
}

func TestParse_ReadError(t *testing.T) {
	t.Parallel()

	failure := errors.New("disk on fire")
	input := container(rawChunk("desc", 32, descBody(t, testDescriptor)))
	r := io.MultiReader(bytes.NewReader(input), &failingReader{err: failure})

	_, _, err := Parse(r)
	if !errors.Is(err, failure) {
		t.Errorf("Parse() error = %v, want wrapped read error", err)
	}
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("Parse() error = %v, want ErrTruncated", err)
	}
}

type failingReader struct {
	err error
}

func (f *failingReader) Read(p []byte) (int, error) { return 0, f.err }

func BenchmarkParse(b *testing.B) {
	var buf bytes.Buffer
	if err := Encode(&buf, testDescriptor, make([]byte, 1<<20)); err != nil {
		b.Fatal(err)
	}
	input := buf.Bytes()

	for b.Loop() {
		if _, _, err := Parse(bytes.NewReader(input)); err != nil {
			b.Fatal(err)
		}
	}
}
