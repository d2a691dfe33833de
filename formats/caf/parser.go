// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"bytes"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used to report skipped chunks.
func SetLogger(l logrus.FieldLogger) {
	log = l
}

// Parse reads a CAF stream up to and including its first data chunk and
// returns the audio descriptor with the raw sample payload.
//
// The 4 bytes after the magic (version and flags) are skipped without being
// checked. Chunks other than desc and data are read and discarded. Parsing
// stops at the data chunk, so chunks after it are never read. A data chunk
// with size -1 extends to the end of the stream.
//
// If no desc chunk precedes the data chunk the returned Descriptor is zero.
//
// Failures are reported as *FormatError.
func Parse(r io.Reader) (Descriptor, []byte, error) {
	b := newBEReader(r)

	if magic := b.fourCC(); b.err != nil || magic != fileMagic {
		return Descriptor{}, nil, &FormatError{Kind: BadMagic, Err: b.err}
	}

	b.read(fileHeaderSize - 4)
	if b.err != nil {
		return Descriptor{}, nil, truncated(FourCC{}, 4, b.err)
	}

	var desc Descriptor
	for {
		offset := b.n
		hdr := readChunkHeader(b)
		if b.err != nil {
			if b.n == offset && errors.Is(b.err, io.EOF) {
				return Descriptor{}, nil, &FormatError{Kind: MissingDataChunk, Offset: offset}
			}
			return Descriptor{}, nil, truncated(hdr.Type, offset, b.err)
		}

		switch hdr.Type {
		case ChunkDescription:
			body, err := readChunk(b, hdr)
			if err != nil {
				return Descriptor{}, nil, truncated(hdr.Type, offset, err)
			}
			if err := desc.UnmarshalBinary(body); err != nil {
				return Descriptor{}, nil, truncated(hdr.Type, offset, io.ErrUnexpectedEOF)
			}

		case ChunkAudioData:
			payload, err := readData(b, hdr)
			if err != nil {
				return Descriptor{}, nil, truncated(hdr.Type, offset, err)
			}
			return desc, payload, nil

		default:
			if err := skipChunk(b, hdr); err != nil {
				return Descriptor{}, nil, truncated(hdr.Type, offset, err)
			}
			log.WithFields(logrus.Fields{
				"tag":    hdr.Type.String(),
				"size":   hdr.Size,
				"offset": offset,
			}).Debug("skipped CAF chunk")
		}
	}
}

var errInvalidChunkSize = errors.New("invalid chunk size")

func truncated(tag FourCC, offset int64, err error) *FormatError {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &FormatError{Kind: Truncated, Tag: tag, Offset: offset, Err: err}
}

// readChunk reads exactly hdr.Size bytes. The buffer grows with the data
// actually present, so a corrupt size cannot force a huge allocation.
func readChunk(b *beReader, hdr ChunkHeader) ([]byte, error) {
	if hdr.Size < 0 {
		return nil, errInvalidChunkSize
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(b.r, hdr.Size))
	b.n += n
	if err != nil {
		return nil, err
	}
	if n < hdr.Size {
		return nil, io.ErrUnexpectedEOF
	}
	return buf.Bytes(), nil
}

func readData(b *beReader, hdr ChunkHeader) ([]byte, error) {
	if hdr.Size != -1 {
		return readChunk(b, hdr)
	}

	payload, err := io.ReadAll(b.r)
	b.n += int64(len(payload))
	return payload, err
}

func skipChunk(b *beReader, hdr ChunkHeader) error {
	if hdr.Size < 0 {
		return errInvalidChunkSize
	}

	n, err := io.CopyN(io.Discard, b.r, hdr.Size)
	b.n += n
	return err
}
