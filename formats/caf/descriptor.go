// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"bytes"
	"fmt"

	"github.com/ik5/cafplay/audio"
)

// Linear PCM format flags.
const (
	FlagIsFloat        int32 = 1 << 0
	FlagIsLittleEndian int32 = 1 << 1
)

// descriptorSize is the encoded size of a desc chunk body.
const descriptorSize = 32

// Descriptor is the body of the desc chunk. It describes the samples held in
// the data chunk.
type Descriptor struct {
	SampleRate       float64
	FormatID         FourCC
	FormatFlags      int32
	BytesPerPacket   int32
	FramesPerPacket  int32
	ChannelsPerFrame int32
	BitsPerChannel   int32
}

func decodeDescriptor(b *beReader) Descriptor {
	return Descriptor{
		SampleRate:       b.float64(),
		FormatID:         b.fourCC(),
		FormatFlags:      b.int32(),
		BytesPerPacket:   b.int32(),
		FramesPerPacket:  b.int32(),
		ChannelsPerFrame: b.int32(),
		BitsPerChannel:   b.int32(),
	}
}

// UnmarshalBinary decodes a desc chunk body. Bytes past the fixed fields are
// ignored.
func (d *Descriptor) UnmarshalBinary(data []byte) error {
	b := newBEReader(bytes.NewReader(data))
	dec := decodeDescriptor(b)
	if b.err != nil {
		return fmt.Errorf("decode %s chunk of %d bytes: %w", ChunkDescription, len(data), ErrTruncated)
	}

	*d = dec
	return nil
}

// MarshalBinary encodes d as a desc chunk body.
func (d Descriptor) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	b := newBEWriter(&buf)
	d.write(b)
	return buf.Bytes(), b.err
}

func (d Descriptor) write(b *beWriter) {
	b.float64(d.SampleRate)
	b.fourCC(d.FormatID)
	b.int32(d.FormatFlags)
	b.int32(d.BytesPerPacket)
	b.int32(d.FramesPerPacket)
	b.int32(d.ChannelsPerFrame)
	b.int32(d.BitsPerChannel)
}

// PCMFormat maps the descriptor onto a backend buffer format. Mono and
// stereo pick 8 or 16 bits; every other channel count falls back to Stereo16.
func (d Descriptor) PCMFormat() audio.PCMFormat {
	return audio.PCMFormatFor(int(d.ChannelsPerFrame), int(d.BitsPerChannel))
}

// DescriptorFor describes little-endian integer PCM laid out as f at
// sampleRate. The result round-trips through PCMFormat.
func DescriptorFor(f audio.PCMFormat, sampleRate int) Descriptor {
	return Descriptor{
		SampleRate:       float64(sampleRate),
		FormatID:         FormatLinearPCM,
		FormatFlags:      FlagIsLittleEndian,
		BytesPerPacket:   int32(f.FrameSize()),
		FramesPerPacket:  1,
		ChannelsPerFrame: int32(f.Channels()),
		BitsPerChannel:   int32(f.BitDepth()),
	}
}

// IsLittleEndian reports whether the LPCM samples are stored little-endian.
func (d Descriptor) IsLittleEndian() bool {
	return d.FormatFlags&FlagIsLittleEndian != 0
}

// IsFloat reports whether the LPCM samples are IEEE floats.
func (d Descriptor) IsFloat() bool {
	return d.FormatFlags&FlagIsFloat != 0
}

// Validate checks that d describes uncompressed mono or stereo PCM at 8 or 16
// bits with a positive sample rate.
func (d Descriptor) Validate() error {
	switch {
	case d.FormatID != FormatLinearPCM:
		return fmt.Errorf("format %q: %w", d.FormatID.String(), ErrUnsupportedFormat)
	case d.IsFloat():
		return fmt.Errorf("floating point samples: %w", ErrUnsupportedFormat)
	case d.SampleRate <= 0:
		return fmt.Errorf("sample rate %v: %w", d.SampleRate, ErrUnsupportedFormat)
	case d.ChannelsPerFrame != 1 && d.ChannelsPerFrame != 2:
		return fmt.Errorf("%d channels: %w", d.ChannelsPerFrame, ErrUnsupportedFormat)
	case d.BitsPerChannel != 8 && d.BitsPerChannel != 16:
		return fmt.Errorf("%d bits per channel: %w", d.BitsPerChannel, ErrUnsupportedFormat)
	}
	return nil
}

func (d Descriptor) String() string {
	return fmt.Sprintf("CAF descriptor:\n"+
		"\tsample rate        = %v\n"+
		"\tformat ID          = %s\n"+
		"\tformat flags       = %#x\n"+
		"\tbytes per packet   = %d\n"+
		"\tframes per packet  = %d\n"+
		"\tchannels per frame = %d\n"+
		"\tbits per channel   = %d\n",
		d.SampleRate, d.FormatID, d.FormatFlags, d.BytesPerPacket,
		d.FramesPerPacket, d.ChannelsPerFrame, d.BitsPerChannel)
}
