// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/playback"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	DefaultBufferSize = 100 * time.Millisecond
)

// Options configure the output device. Zero values take the defaults.
type Options struct {
	SampleRate int
	Channels   int
	BufferSize time.Duration
	Logger     logrus.FieldLogger
}

type sourceState int

const (
	sourceInitial sourceState = iota
	sourcePlaying
	sourcePaused
	sourceStopped
)

type buffer struct {
	ctx        playback.ContextHandle
	format     audio.PCMFormat
	data       []byte
	sampleRate int
	refs       int
}

type source struct {
	ctx     playback.ContextHandle
	buf     playback.BufferHandle
	stream  *stream
	player  player
	looping bool
	pitch   float32
	state   sourceState
}

// Oto is a playback.Backend rendering through the ebitengine/oto device.
// Every buffer is converted to the device rate and channel layout while it
// plays; pitch scales the rate conversion.
//
// Errors are latched the way OpenAL does: the first failing call sets the
// code and LastError returns and clears it.
type Oto struct {
	mu sync.Mutex

	opts Options
	log  logrus.FieldLogger
	open func(sampleRate, channels int, bufferSize time.Duration) (device, error)

	dev       device
	suspended bool

	next     uint32
	contexts map[playback.ContextHandle]struct{}
	sources  map[playback.SourceHandle]*source
	buffers  map[playback.BufferHandle]*buffer

	lastErr playback.ErrorCode
}

var _ playback.Backend = (*Oto)(nil)

// NewOto prepares a backend. The device itself is opened by the first
// CreateContext.
func NewOto(opts Options) (*Oto, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Channels == 0 {
		opts.Channels = DefaultChannels
	}
	if opts.Channels != 1 && opts.Channels != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrChannels, opts.Channels)
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Oto{
		opts:     opts,
		log:      opts.Logger,
		open:     openOto,
		contexts: make(map[playback.ContextHandle]struct{}),
		sources:  make(map[playback.SourceHandle]*source),
		buffers:  make(map[playback.BufferHandle]*buffer),
	}, nil
}

func (o *Oto) fail(code playback.ErrorCode) {
	if o.lastErr == playback.NoError {
		o.lastErr = code
	}
}

func (o *Oto) handle() uint32 {
	o.next++
	return o.next
}

func (o *Oto) CreateContext() (playback.ContextHandle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch {
	case o.dev == nil:
		dev, err := o.open(o.opts.SampleRate, o.opts.Channels, o.opts.BufferSize)
		if err != nil {
			return 0, err
		}
		o.dev = dev
		o.log.WithFields(logrus.Fields{
			"sample_rate": o.opts.SampleRate,
			"channels":    o.opts.Channels,
			"buffer":      o.opts.BufferSize,
		}).Info("audio output initialized")
	case o.suspended:
		if err := o.dev.Resume(); err != nil {
			return 0, fmt.Errorf("resume audio output: %w", err)
		}
		o.suspended = false
	}

	ctx := playback.ContextHandle(o.handle())
	o.contexts[ctx] = struct{}{}
	return ctx, nil
}

func (o *Oto) GenSource(ctx playback.ContextHandle) playback.SourceHandle {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.contexts[ctx]; !ok {
		o.fail(playback.InvalidName)
		return 0
	}

	h := playback.SourceHandle(o.handle())
	o.sources[h] = &source{ctx: ctx, pitch: 1}
	return h
}

func (o *Oto) GenBuffer(ctx playback.ContextHandle) playback.BufferHandle {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.contexts[ctx]; !ok {
		o.fail(playback.InvalidName)
		return playback.NoBuffer
	}

	h := playback.BufferHandle(o.handle())
	o.buffers[h] = &buffer{ctx: ctx}
	return h
}

func (o *Oto) BufferData(h playback.BufferHandle, format audio.PCMFormat, data []byte, sampleRate int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	b, ok := o.buffers[h]
	switch {
	case !ok:
		o.fail(playback.InvalidName)
		return
	case format.Channels() == 0:
		o.fail(playback.InvalidEnum)
		return
	case sampleRate <= 0 || len(data)%format.FrameSize() != 0:
		o.fail(playback.InvalidValue)
		return
	case b.refs > 0:
		o.fail(playback.InvalidOperation)
		return
	}

	b.format = format
	b.data = append([]byte(nil), data...)
	b.sampleRate = sampleRate
}

// current reports a playing source whose player ran dry as stopped.
func (s *source) current() sourceState {
	if s.state == sourcePlaying && (s.player == nil || !s.player.IsPlaying()) {
		return sourceStopped
	}
	return s.state
}

func (o *Oto) detach(s *source) {
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
		s.stream = nil
	}
	if b, ok := o.buffers[s.buf]; ok {
		b.refs--
	}
	s.buf = playback.NoBuffer
}

func (o *Oto) AttachBuffer(src playback.SourceHandle, h playback.BufferHandle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sources[src]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	b, ok := o.buffers[h]
	if h != playback.NoBuffer && !ok {
		o.fail(playback.InvalidName)
		return
	}
	if st := s.current(); st == sourcePlaying || st == sourcePaused {
		o.fail(playback.InvalidOperation)
		return
	}

	o.detach(s)
	s.state = sourceInitial
	if h == playback.NoBuffer {
		return
	}
	if b.format == audio.FormatUnknown {
		o.fail(playback.InvalidOperation)
		return
	}

	s.stream = newStream(b, o.opts.SampleRate, o.opts.Channels)
	s.stream.setLooping(s.looping)
	_ = s.stream.setPitch(float64(s.pitch))
	s.player = o.dev.NewPlayer(s.stream)
	s.buf = h
	b.refs++
}

func (o *Oto) Play(src playback.SourceHandle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sources[src]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	if s.player == nil {
		s.state = sourceStopped
		return
	}

	if s.current() != sourcePaused {
		if _, err := s.player.Seek(0, io.SeekStart); err != nil {
			o.log.WithError(err).Warn("rewind before play failed")
			o.fail(playback.InvalidOperation)
			return
		}
	}
	s.player.Play()
	s.state = sourcePlaying
}

func (o *Oto) Stop(src playback.SourceHandle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sources[src]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	if s.player != nil {
		s.player.Pause()
		if _, err := s.player.Seek(0, io.SeekStart); err != nil {
			o.log.WithError(err).Warn("rewind on stop failed")
		}
	}
	s.state = sourceStopped
}

func (o *Oto) Pause(src playback.SourceHandle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sources[src]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	if s.current() != sourcePlaying {
		return
	}
	s.player.Pause()
	s.state = sourcePaused
}

func (o *Oto) SetLooping(src playback.SourceHandle, loop bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sources[src]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	s.looping = loop
	if s.stream != nil {
		s.stream.setLooping(loop)
	}
}

func (o *Oto) SetPitch(src playback.SourceHandle, pitch float32) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sources[src]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	if pitch <= 0 || math.IsNaN(float64(pitch)) || math.IsInf(float64(pitch), 0) {
		o.fail(playback.InvalidValue)
		return
	}
	s.pitch = pitch
	if s.stream != nil {
		_ = s.stream.setPitch(float64(pitch))
	}
}

func (o *Oto) DeleteSource(src playback.SourceHandle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sources[src]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	o.detach(s)
	delete(o.sources, src)
}

func (o *Oto) DeleteBuffer(h playback.BufferHandle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	b, ok := o.buffers[h]
	if !ok {
		o.fail(playback.InvalidName)
		return
	}
	if b.refs > 0 {
		o.fail(playback.InvalidOperation)
		return
	}
	delete(o.buffers, h)
}

// DisposeContext releases whatever the context still owns. When the last
// context goes the device is suspended; oto cannot open a second one.
func (o *Oto) DisposeContext(ctx playback.ContextHandle) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.contexts[ctx]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownContext, ctx)
	}

	for h, s := range o.sources {
		if s.ctx == ctx {
			o.detach(s)
			delete(o.sources, h)
		}
	}
	for h, b := range o.buffers {
		if b.ctx == ctx {
			delete(o.buffers, h)
		}
	}
	delete(o.contexts, ctx)

	if len(o.contexts) > 0 {
		return nil
	}
	if err := o.dev.Suspend(); err != nil {
		return fmt.Errorf("suspend audio output: %w", err)
	}
	o.suspended = true
	o.log.Debug("audio output suspended")
	return nil
}

func (o *Oto) LastError() playback.ErrorCode {
	o.mu.Lock()
	defer o.mu.Unlock()

	code := o.lastErr
	o.lastErr = playback.NoError
	return code
}
