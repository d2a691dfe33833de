// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"io"
	"os"

	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/formats/caf"
	"github.com/sirupsen/logrus"
)

// BufferInfo describes the audio currently held in a Manager's buffer.
type BufferInfo struct {
	Format     audio.PCMFormat
	SampleRate int
	Size       int
}

// Manager owns one backend context with one source and one buffer, and turns
// loaded audio into something that can be played, paused and stopped.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	backend Backend
	log     logrus.FieldLogger
	limit   int

	ctx    ContextHandle
	source SourceHandle
	buffer BufferHandle

	state  State
	loop   bool
	pitch  float32
	loaded BufferInfo
	errs   []*BackendError
}

// New returns an uninitialized Manager driving b.
func New(b Backend, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Manager{
		backend: b,
		log:     o.logger,
		limit:   o.historyLimit,
		pitch:   1,
	}
}

// Open returns an initialized Manager. Close it to release the backend
// resources:
//
//	m, err := playback.Open(backend)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
func Open(b Backend, opts ...Option) (*Manager, error) {
	m := New(b, opts...)
	if err := m.Init(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init creates the context and allocates the source and buffer. Backend
// errors raised while allocating are recorded and logged but do not fail
// Init. Init may be called again after Cleanup.
func (m *Manager) Init() error {
	if m.state.live() {
		return ErrAlreadyInitialized
	}
	m.errs = nil

	ctx, err := m.backend.CreateContext()
	if err != nil {
		return fmt.Errorf("create audio context: %w", err)
	}
	m.check("create context")

	m.ctx = ctx
	m.source = m.backend.GenSource(ctx)
	m.buffer = m.backend.GenBuffer(ctx)
	m.check("generate source and buffer")

	m.state = Ready
	m.loop = false
	m.pitch = 1
	m.loaded = BufferInfo{}

	m.log.WithFields(logrus.Fields{
		"context": m.ctx,
		"source":  m.source,
		"buffer":  m.buffer,
	}).Debug("playback initialized")

	return nil
}

// Load parses a CAF stream and loads its payload into the buffer. A parse
// failure is returned before the backend is touched, leaving the current
// buffer attached and playing.
func (m *Manager) Load(r io.Reader) error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	desc, payload, err := caf.Parse(r)
	if err != nil {
		return fmt.Errorf("load CAF: %w", err)
	}

	return m.LoadPCM(desc.PCMFormat(), payload, int(desc.SampleRate))
}

// LoadFile opens path and calls Load.
func (m *Manager) LoadFile(path string) error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	if err := m.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadPCM copies interleaved samples into the buffer and attaches it to the
// source. A buffer already attached is detached first, stopping playback.
// The loop flag and pitch are pushed to the source again afterwards.
//
// format and sampleRate are passed to the backend as given; the backend
// reports values it rejects as errors in Errors.
func (m *Manager) LoadPCM(format audio.PCMFormat, data []byte, sampleRate int) error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	if m.state.hasBuffer() {
		m.backend.Stop(m.source)
		m.backend.AttachBuffer(m.source, NoBuffer)
		m.check("detach buffer")
	}

	m.backend.BufferData(m.buffer, format, data, sampleRate)
	m.check("buffer data")

	m.backend.AttachBuffer(m.source, m.buffer)
	m.check("attach buffer")

	m.backend.SetLooping(m.source, m.loop)
	m.backend.SetPitch(m.source, m.pitch)
	m.check("restore source attributes")

	m.state = Loaded
	m.loaded = BufferInfo{Format: format, SampleRate: sampleRate, Size: len(data)}

	m.log.WithFields(logrus.Fields{
		"format": format,
		"rate":   sampleRate,
		"bytes":  len(data),
	}).Debug("buffer loaded")

	return nil
}

// Play starts or resumes the source.
func (m *Manager) Play() error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	m.backend.Play(m.source)
	m.check("play")

	if m.state.hasBuffer() {
		m.state = Playing
	}
	return nil
}

// Stop halts the source and rewinds it.
func (m *Manager) Stop() error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	m.backend.Stop(m.source)
	m.check("stop")

	if m.state.hasBuffer() {
		m.state = Loaded
	}
	return nil
}

// Pause halts the source, keeping its position.
func (m *Manager) Pause() error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	m.backend.Pause(m.source)
	m.check("pause")

	if m.state == Playing {
		m.state = Paused
	}
	return nil
}

// SetLoop stores the flag and pushes it to the source immediately.
func (m *Manager) SetLoop(loop bool) error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	m.loop = loop
	m.backend.SetLooping(m.source, loop)
	m.check("set looping")
	return nil
}

// Loop returns the last value passed to SetLoop.
func (m *Manager) Loop() bool { return m.loop }

// SetPitch sets the playback rate multiplier. The value is not clamped;
// the backend decides what it accepts.
func (m *Manager) SetPitch(pitch float32) error {
	if !m.state.live() {
		return ErrNotInitialized
	}

	m.pitch = pitch
	m.backend.SetPitch(m.source, pitch)
	m.check("set pitch")
	return nil
}

// Pitch returns the last value passed to SetPitch, 1 by default.
func (m *Manager) Pitch() float32 { return m.pitch }

// State returns the lifecycle state.
func (m *Manager) State() State { return m.state }

// Loaded describes the current buffer contents. ok is false until a Load
// succeeds.
func (m *Manager) Loaded() (info BufferInfo, ok bool) {
	return m.loaded, m.state.hasBuffer()
}

// Errors returns the backend errors recorded so far, oldest first.
func (m *Manager) Errors() []*BackendError {
	out := make([]*BackendError, len(m.errs))
	copy(out, m.errs)
	return out
}

// Degraded reports whether any backend error has been recorded since the
// last Init.
func (m *Manager) Degraded() bool { return len(m.errs) > 0 }

// Cleanup deletes the source, then the buffer, then disposes of the context.
// Calling it on a manager that holds nothing is a no-op.
func (m *Manager) Cleanup() error {
	if !m.state.live() {
		return nil
	}

	m.backend.DeleteSource(m.source)
	m.backend.DeleteBuffer(m.buffer)
	m.check("delete source and buffer")

	err := m.backend.DisposeContext(m.ctx)

	m.ctx, m.source, m.buffer = 0, 0, 0
	m.state = Released
	m.loaded = BufferInfo{}

	m.log.Debug("playback released")

	if err != nil {
		return fmt.Errorf("dispose audio context: %w", err)
	}
	return nil
}

// Close is Cleanup, for use with defer.
func (m *Manager) Close() error {
	return m.Cleanup()
}

// check polls the backend error state after op and records anything but
// NoError.
func (m *Manager) check(op string) {
	code := m.backend.LastError()
	if code == NoError {
		return
	}

	berr := &BackendError{Op: op, Code: code}
	m.errs = append(m.errs, berr)
	if m.limit > 0 && len(m.errs) > m.limit {
		m.errs = m.errs[len(m.errs)-m.limit:]
	}

	m.log.WithFields(logrus.Fields{
		"op":   op,
		"code": code,
	}).Warn("audio backend error")
}
