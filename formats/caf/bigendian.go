// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"encoding/binary"
	"io"
	"math"
)

// beReader decodes big-endian fields from r. The first error sticks; later
// reads return zero values.
type beReader struct {
	r   io.Reader
	n   int64
	buf [8]byte
	err error
}

func newBEReader(r io.Reader) *beReader {
	return &beReader{r: r}
}

func (b *beReader) read(size int) []byte {
	if b.err != nil {
		clear(b.buf[:size])
		return b.buf[:size]
	}

	n, err := io.ReadFull(b.r, b.buf[:size])
	b.n += int64(n)
	if err != nil {
		b.err = err
		clear(b.buf[:size])
	}
	return b.buf[:size]
}

func (b *beReader) fourCC() FourCC {
	var f FourCC
	copy(f[:], b.read(4))
	return f
}

func (b *beReader) int32() int32 {
	return int32(binary.BigEndian.Uint32(b.read(4)))
}

func (b *beReader) int64() int64 {
	return int64(binary.BigEndian.Uint64(b.read(8)))
}

func (b *beReader) float64() float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b.read(8)))
}

// beWriter is the encoding counterpart of beReader.
type beWriter struct {
	w   io.Writer
	buf [8]byte
	err error
}

func newBEWriter(w io.Writer) *beWriter {
	return &beWriter{w: w}
}

func (b *beWriter) write(p []byte) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.Write(p)
}

func (b *beWriter) fourCC(f FourCC) {
	b.write(f[:])
}

func (b *beWriter) int32(v int32) {
	binary.BigEndian.PutUint32(b.buf[:4], uint32(v))
	b.write(b.buf[:4])
}

func (b *beWriter) int64(v int64) {
	binary.BigEndian.PutUint64(b.buf[:8], uint64(v))
	b.write(b.buf[:8])
}

func (b *beWriter) float64(v float64) {
	binary.BigEndian.PutUint64(b.buf[:8], math.Float64bits(v))
	b.write(b.buf[:8])
}
