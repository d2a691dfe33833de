// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Upmixer spreads a mono source over n output channels by duplicating each
// sample. Sources that already have n channels pass through unchanged.
type Upmixer struct {
	src      Source
	channels int
	tmp      []float32
}

func NewUpmixer(src Source, channels int) *Upmixer {
	return &Upmixer{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}
}

func (u *Upmixer) SampleRate() int { return u.src.SampleRate() }
func (u *Upmixer) Channels() int   { return u.channels }
func (u *Upmixer) BufSize() int    { return u.src.BufSize() }
func (u *Upmixer) Close() error {
	if err := u.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (u *Upmixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%u.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if u.src.Channels() == u.channels {
		return u.src.ReadSamples(dst)
	}
	if u.src.Channels() != 1 {
		return 0, fmt.Errorf("upmix %d channels to %d: %w", u.src.Channels(), u.channels, ErrInvalidDstSize)
	}

	frames := len(dst) / u.channels
	if cap(u.tmp) < frames {
		u.tmp = make([]float32, frames)
	}
	u.tmp = u.tmp[:frames]

	n, err := u.src.ReadSamples(u.tmp)
	for f := range n {
		base := f * u.channels
		for c := range u.channels {
			dst[base+c] = u.tmp[f]
		}
	}

	return n * u.channels, err
}
