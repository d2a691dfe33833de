// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// device is the part of an oto context the backend drives. Tests swap it
// for a fake so no sound card is needed.
type device interface {
	NewPlayer(r io.Reader) player
	Suspend() error
	Resume() error
}

type player interface {
	Play()
	Pause()
	IsPlaying() bool
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

type otoDevice struct {
	ctx *oto.Context
}

func (d otoDevice) NewPlayer(r io.Reader) player { return d.ctx.NewPlayer(r) }
func (d otoDevice) Suspend() error              { return d.ctx.Suspend() }
func (d otoDevice) Resume() error               { return d.ctx.Resume() }

// openOto creates the process-wide oto context and waits for it to be ready.
// oto allows only one context per process.
func openOto(sampleRate, channels int, bufferSize time.Duration) (device, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	return otoDevice{ctx: ctx}, nil
}
