// SPDX-License-Identifier: EPL-2.0

package caf

import "fmt"

// FourCC is a four character chunk or format code.
type FourCC [4]byte

// NewFourCC builds a code from s. It panics unless s is exactly four bytes.
func NewFourCC(s string) FourCC {
	if len(s) != 4 {
		panic(fmt.Sprintf("caf: four character code %q must be 4 bytes", s))
	}
	var f FourCC
	copy(f[:], s)
	return f
}

func (f FourCC) String() string { return string(f[:]) }

var (
	fileMagic = NewFourCC("caff")

	ChunkDescription = NewFourCC("desc")
	ChunkAudioData   = NewFourCC("data")
	ChunkFree        = NewFourCC("free")
	ChunkInformation = NewFourCC("info")

	// FormatLinearPCM is the only FormatID the Decoder can turn into samples.
	FormatLinearPCM = NewFourCC("lpcm")
)

// fileHeaderSize covers the magic plus the version and flags fields.
const (
	fileHeaderSize  = 8
	chunkHeaderSize = 12
)

// ChunkHeader precedes every chunk in the stream.
type ChunkHeader struct {
	Type FourCC
	Size int64
}

func readChunkHeader(b *beReader) ChunkHeader {
	return ChunkHeader{
		Type: b.fourCC(),
		Size: b.int64(),
	}
}

func (h ChunkHeader) write(b *beWriter) {
	b.fourCC(h.Type)
	b.int64(h.Size)
}

// Chunk is an opaque chunk carried through Encode, e.g. "info" or "free".
type Chunk struct {
	Type FourCC
	Data []byte
}
