// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"

	"github.com/ik5/cafplay/audio"
)

// Opaque handles issued by a Backend. Zero is never a valid handle.
type (
	ContextHandle uint32
	SourceHandle  uint32
	BufferHandle  uint32
)

// NoBuffer detaches whatever buffer a source holds when passed to AttachBuffer.
const NoBuffer BufferHandle = 0

// ErrorCode is the error state a Backend latches after a failed call.
type ErrorCode int

const (
	NoError ErrorCode = iota
	InvalidName
	InvalidEnum
	InvalidValue
	InvalidOperation
	OutOfMemory
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NoError"
	case InvalidName:
		return "InvalidName"
	case InvalidEnum:
		return "InvalidEnum"
	case InvalidValue:
		return "InvalidValue"
	case InvalidOperation:
		return "InvalidOperation"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// Backend is the audio device capability a Manager drives. Calls do not
// return errors; a failing call latches an ErrorCode that LastError reports
// and clears, mirroring the OpenAL error model.
//
// Sources and buffers belong to the context they were generated in.
// Implementations must not rely on a process-wide current context.
type Backend interface {
	// CreateContext opens the device. An error here leaves nothing to release.
	CreateContext() (ContextHandle, error)
	GenSource(ctx ContextHandle) SourceHandle
	GenBuffer(ctx ContextHandle) BufferHandle

	// BufferData copies data into backend memory, replacing the buffer's
	// previous contents. The caller may reuse data once it returns.
	BufferData(buf BufferHandle, format audio.PCMFormat, data []byte, sampleRate int)
	AttachBuffer(src SourceHandle, buf BufferHandle)

	Play(src SourceHandle)
	Stop(src SourceHandle)
	Pause(src SourceHandle)
	SetLooping(src SourceHandle, loop bool)
	SetPitch(src SourceHandle, pitch float32)

	DeleteSource(src SourceHandle)
	DeleteBuffer(buf BufferHandle)
	DisposeContext(ctx ContextHandle) error

	LastError() ErrorCode
}
