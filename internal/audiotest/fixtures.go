// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"

	"github.com/ik5/cafplay/formats/caf"
)

// PCM16 packs samples as little-endian 16-bit PCM.
func PCM16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// LPCMDescriptor describes little-endian integer PCM.
func LPCMDescriptor(sampleRate float64, channels, bits int32) caf.Descriptor {
	return caf.Descriptor{
		SampleRate:       sampleRate,
		FormatID:         caf.FormatLinearPCM,
		FormatFlags:      caf.FlagIsLittleEndian,
		BytesPerPacket:   channels * bits / 8,
		FramesPerPacket:  1,
		ChannelsPerFrame: channels,
		BitsPerChannel:   bits,
	}
}

// CAF encodes a container holding desc and data as its data chunk body.
// It panics on encoding failure, which cannot happen with a bytes.Buffer.
func CAF(desc caf.Descriptor, data []byte, extra ...caf.Chunk) []byte {
	var buf bytes.Buffer
	if err := caf.Encode(&buf, desc, data, extra...); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
