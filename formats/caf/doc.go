// SPDX-License-Identifier: EPL-2.0

// Package caf reads and writes Core Audio Format (CAF) containers.
//
// A CAF stream is the magic "caff", 4 bytes of version and flags, then a
// sequence of chunks. Each chunk is a 4 character tag, a big-endian signed
// 64-bit size and size bytes of body.
//
// # Parsing
//
// Parse walks the chunks until the first data chunk:
//
//	desc, payload, err := caf.Parse(file)
//	if err != nil {
//	    // *caf.FormatError
//	}
//	format := desc.PCMFormat() // audio.Mono16, audio.Stereo8, ...
//
// The desc chunk is decoded into a Descriptor. Unknown chunks are skipped, and
// nothing after the data chunk is read. The payload is returned exactly as
// stored, which for files written by CAF tools includes the 4-byte edit count.
//
// # Errors
//
// Every parse failure is a *FormatError carrying the chunk tag and the byte
// offset where the failing read started. Match the kind with errors.Is:
//   - ErrBadMagic: the stream does not begin with "caff"
//   - ErrTruncated: the stream ended inside the header or a chunk
//   - ErrMissingDataChunk: the stream ended without a data chunk
//
// # Decoding
//
// Decoder implements audio.Decoder for linear PCM, producing float32 samples
// in [-1, 1]:
//
//	src, err := caf.Decoder{}.Decode(file)
//
// # Writing
//
// Encode writes a container from a Descriptor and a data chunk body. Use
// WithEditCount to prefix raw samples with the edit count other tools expect.
package caf
