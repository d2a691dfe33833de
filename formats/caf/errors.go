// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic indicates the stream does not start with "caff"
	ErrBadMagic = errors.New("not a CAF file")

	// ErrTruncated indicates the stream ended inside a header or chunk
	ErrTruncated = errors.New("truncated CAF stream")

	// ErrMissingDataChunk indicates the stream ended without a data chunk
	ErrMissingDataChunk = errors.New("missing data chunk")

	// ErrUnsupportedFormat indicates a descriptor outside the linear PCM path
	ErrUnsupportedFormat = errors.New("unsupported CAF audio format")
)

// ErrorKind classifies a FormatError.
type ErrorKind int

const (
	BadMagic ErrorKind = iota + 1
	Truncated
	MissingDataChunk
)

func (k ErrorKind) String() string {
	switch k {
	case BadMagic:
		return "BadMagic"
	case Truncated:
		return "Truncated"
	case MissingDataChunk:
		return "MissingDataChunk"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case BadMagic:
		return ErrBadMagic
	case Truncated:
		return ErrTruncated
	case MissingDataChunk:
		return ErrMissingDataChunk
	default:
		return nil
	}
}

// FormatError reports where and why a container could not be parsed.
// It matches ErrBadMagic, ErrTruncated or ErrMissingDataChunk with errors.Is.
type FormatError struct {
	Kind   ErrorKind
	Tag    FourCC // chunk being read, zero when outside a chunk
	Offset int64  // byte offset where the failing read started
	Err    error  // underlying read error, if any
}

func (e *FormatError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Tag != (FourCC{}) {
		msg = fmt.Sprintf("%s: chunk %q", msg, e.Tag.String())
	}
	msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
