// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/playback"
)

// SourceState is what the Backend knows about one source.
type SourceState struct {
	Context playback.ContextHandle
	Buffer  playback.BufferHandle
	Looping bool
	Pitch   float32
	State   string // "initial", "playing", "paused" or "stopped"
}

// BufferState is what the Backend knows about one buffer.
type BufferState struct {
	Context    playback.ContextHandle
	Format     audio.PCMFormat
	Data       []byte
	SampleRate int
}

// ErrContextFailed is returned by CreateContext when FailContext is set.
var ErrContextFailed = errors.New("no audio device")

// Backend is an in-memory playback.Backend that records every call. It
// validates handles and arguments the way OpenAL does and latches the
// first error until LastError is called.
type Backend struct {
	// FailContext makes CreateContext return ErrContextFailed.
	FailContext bool

	Calls []string

	next     uint32
	pending  playback.ErrorCode
	inject   map[string]playback.ErrorCode
	contexts map[playback.ContextHandle]bool
	sources  map[playback.SourceHandle]*SourceState
	buffers  map[playback.BufferHandle]*BufferState
}

var _ playback.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	return &Backend{
		inject:   make(map[string]playback.ErrorCode),
		contexts: make(map[playback.ContextHandle]bool),
		sources:  make(map[playback.SourceHandle]*SourceState),
		buffers:  make(map[playback.BufferHandle]*BufferState),
	}
}

// Inject makes the next call to method latch code, whatever its arguments.
func (b *Backend) Inject(method string, code playback.ErrorCode) {
	b.inject[method] = code
}

func (b *Backend) call(method string, args ...any) {
	b.Calls = append(b.Calls, fmt.Sprintf("%s%v", method, args))
	if code, ok := b.inject[method]; ok {
		delete(b.inject, method)
		b.latch(code)
	}
}

// CallNames returns the method names recorded so far, without arguments.
func (b *Backend) CallNames() []string {
	names := make([]string, len(b.Calls))
	for i, c := range b.Calls {
		names[i] = c
		for j := range c {
			if c[j] == '[' {
				names[i] = c[:j]
				break
			}
		}
	}
	return names
}

func (b *Backend) latch(code playback.ErrorCode) {
	if b.pending == playback.NoError {
		b.pending = code
	}
}

func (b *Backend) handle() uint32 {
	b.next++
	return b.next
}

func (b *Backend) CreateContext() (playback.ContextHandle, error) {
	b.call("CreateContext")
	if b.FailContext {
		return 0, ErrContextFailed
	}

	h := playback.ContextHandle(b.handle())
	b.contexts[h] = true
	return h, nil
}

func (b *Backend) GenSource(ctx playback.ContextHandle) playback.SourceHandle {
	b.call("GenSource", ctx)
	if !b.contexts[ctx] {
		b.latch(playback.InvalidOperation)
		return 0
	}

	h := playback.SourceHandle(b.handle())
	b.sources[h] = &SourceState{Context: ctx, Pitch: 1, State: "initial"}
	return h
}

func (b *Backend) GenBuffer(ctx playback.ContextHandle) playback.BufferHandle {
	b.call("GenBuffer", ctx)
	if !b.contexts[ctx] {
		b.latch(playback.InvalidOperation)
		return 0
	}

	h := playback.BufferHandle(b.handle())
	b.buffers[h] = &BufferState{Context: ctx}
	return h
}

func (b *Backend) BufferData(buf playback.BufferHandle, format audio.PCMFormat, data []byte, sampleRate int) {
	b.call("BufferData", buf, format, len(data), sampleRate)

	state, ok := b.buffers[buf]
	switch {
	case !ok:
		b.latch(playback.InvalidName)
		return
	case format.Channels() == 0:
		b.latch(playback.InvalidEnum)
		return
	case sampleRate <= 0 || len(data)%format.FrameSize() != 0:
		b.latch(playback.InvalidValue)
		return
	}

	for _, src := range b.sources {
		if src.Buffer == buf {
			b.latch(playback.InvalidOperation)
			return
		}
	}

	state.Format = format
	state.Data = slices.Clone(data)
	state.SampleRate = sampleRate
}

func (b *Backend) AttachBuffer(src playback.SourceHandle, buf playback.BufferHandle) {
	b.call("AttachBuffer", src, buf)

	s, ok := b.sources[src]
	if !ok {
		b.latch(playback.InvalidName)
		return
	}
	if _, ok := b.buffers[buf]; !ok && buf != playback.NoBuffer {
		b.latch(playback.InvalidValue)
		return
	}
	if s.State == "playing" || s.State == "paused" {
		b.latch(playback.InvalidOperation)
		return
	}

	s.Buffer = buf
	if buf == playback.NoBuffer {
		s.State = "initial"
	}
}

func (b *Backend) transport(method string, src playback.SourceHandle, next func(*SourceState)) {
	b.call(method, src)

	s, ok := b.sources[src]
	if !ok {
		b.latch(playback.InvalidName)
		return
	}
	next(s)
}

func (b *Backend) Play(src playback.SourceHandle) {
	b.transport("Play", src, func(s *SourceState) {
		if s.Buffer != playback.NoBuffer {
			s.State = "playing"
		}
	})
}

func (b *Backend) Stop(src playback.SourceHandle) {
	b.transport("Stop", src, func(s *SourceState) {
		if s.State != "initial" {
			s.State = "stopped"
		}
	})
}

func (b *Backend) Pause(src playback.SourceHandle) {
	b.transport("Pause", src, func(s *SourceState) {
		if s.State == "playing" {
			s.State = "paused"
		}
	})
}

func (b *Backend) SetLooping(src playback.SourceHandle, loop bool) {
	b.transport("SetLooping", src, func(s *SourceState) {
		s.Looping = loop
	})
}

func (b *Backend) SetPitch(src playback.SourceHandle, pitch float32) {
	b.call("SetPitch", src, pitch)

	s, ok := b.sources[src]
	if !ok {
		b.latch(playback.InvalidName)
		return
	}
	if pitch <= 0 {
		b.latch(playback.InvalidValue)
		return
	}
	s.Pitch = pitch
}

func (b *Backend) DeleteSource(src playback.SourceHandle) {
	b.call("DeleteSource", src)
	if _, ok := b.sources[src]; !ok {
		b.latch(playback.InvalidName)
		return
	}
	delete(b.sources, src)
}

func (b *Backend) DeleteBuffer(buf playback.BufferHandle) {
	b.call("DeleteBuffer", buf)
	if _, ok := b.buffers[buf]; !ok {
		b.latch(playback.InvalidName)
		return
	}
	for _, s := range b.sources {
		if s.Buffer == buf {
			b.latch(playback.InvalidOperation)
			return
		}
	}
	delete(b.buffers, buf)
}

func (b *Backend) DisposeContext(ctx playback.ContextHandle) error {
	b.call("DisposeContext", ctx)
	if !b.contexts[ctx] {
		return fmt.Errorf("context %d: %w", ctx, errors.New("unknown context"))
	}
	delete(b.contexts, ctx)
	return nil
}

func (b *Backend) LastError() playback.ErrorCode {
	code := b.pending
	b.pending = playback.NoError
	return code
}

// Source returns a copy of the state of src.
func (b *Backend) Source(src playback.SourceHandle) (SourceState, bool) {
	s, ok := b.sources[src]
	if !ok {
		return SourceState{}, false
	}
	return *s, true
}

// Buffer returns a copy of the state of buf.
func (b *Backend) Buffer(buf playback.BufferHandle) (BufferState, bool) {
	s, ok := b.buffers[buf]
	if !ok {
		return BufferState{}, false
	}
	return *s, true
}

// Live returns how many contexts, sources and buffers are still allocated.
func (b *Backend) Live() (contexts, sources, buffers int) {
	return len(b.contexts), len(b.sources), len(b.buffers)
}

// SoleSource returns the state of the only live source. ok is false unless
// exactly one source exists.
func (b *Backend) SoleSource() (SourceState, bool) {
	if len(b.sources) != 1 {
		return SourceState{}, false
	}
	for _, s := range b.sources {
		return *s, true
	}
	return SourceState{}, false
}

// SoleBuffer returns the state of the only live buffer. ok is false unless
// exactly one buffer exists.
func (b *Backend) SoleBuffer() (BufferState, bool) {
	if len(b.buffers) != 1 {
		return BufferState{}, false
	}
	for _, s := range b.buffers {
		return *s, true
	}
	return BufferState{}, false
}
