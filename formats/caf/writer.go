// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"bufio"
	"fmt"
	"io"
)

// fileVersion is written after the magic; Parse never checks it.
const fileVersion = 1

// EditCountSize is the length of the edit count that opens the body of a
// data chunk written by CAF tools.
const EditCountSize = 4

// WithEditCount prefixes pcm with a zero edit count, producing a data chunk
// body other CAF readers accept.
func WithEditCount(pcm []byte) []byte {
	body := make([]byte, EditCountSize+len(pcm))
	copy(body[EditCountSize:], pcm)
	return body
}

// Encode writes a complete CAF stream: file header, desc chunk, any extra
// chunks in order, then a data chunk whose body is data, verbatim.
//
// Parse returns exactly the data passed here. Use WithEditCount when the
// output is meant for other tools.
func Encode(w io.Writer, d Descriptor, data []byte, extra ...Chunk) error {
	bw := bufio.NewWriter(w)
	b := newBEWriter(bw)

	b.fourCC(fileMagic)
	b.write([]byte{0, fileVersion, 0, 0})

	ChunkHeader{Type: ChunkDescription, Size: descriptorSize}.write(b)
	d.write(b)

	for _, c := range extra {
		ChunkHeader{Type: c.Type, Size: int64(len(c.Data))}.write(b)
		b.write(c.Data)
	}

	ChunkHeader{Type: ChunkAudioData, Size: int64(len(data))}.write(b)
	b.write(data)

	if b.err != nil {
		return fmt.Errorf("encode CAF: %w", b.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode CAF: %w", err)
	}
	return nil
}
