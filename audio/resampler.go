// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/cafplay/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	ratio    float64 // srcRate / dstRate * speed - how many source samples per output sample
	speed    float64
	channels int

	// Ring buffer holding 4 frames for cubic interpolation
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool

	// Position within the current output stream (in source samples)
	pos float64

	// Buffer for reading from source
	srcBuf []float32
	eof    bool
	primed bool

	// Simple low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	// Enable simple low-pass filter when downsampling
	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		// Simple one-pole low-pass filter
		// Cutoff at Nyquist frequency of destination rate
		// This is a simplified filter - for production, use a proper FIR filter
		filterAlpha = 0.5
	}

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		ratio:       ratio,
		speed:       1,
		channels:    channels,
		srcBuf:      make([]float32, 4096),
		pos:         0,
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}

	// Initialize frame buffers
	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Speed returns the playback speed multiplier, 1 by default.
func (r *Resampler) Speed() float64 { return r.speed }

// SetSpeed scales how fast the source is consumed relative to the output
// rate. A speed of 2 plays the source an octave higher in half the time.
// It may be changed between reads; the interpolation position is kept.
func (r *Resampler) SetSpeed(speed float64) error {
	if !(speed > 0) || math.IsInf(speed, 1) {
		return ErrInvalidSpeed
	}

	r.speed = speed
	r.ratio = r.srcRate / r.dstRate * speed
	if r.ratio > 1.0 && !r.useFilter {
		r.useFilter = true
		r.filterAlpha = 0.5
		copy(r.filterState, r.frames[2])
	} else if r.ratio <= 1.0 {
		r.useFilter = false
	}

	return nil
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampled source: %w", err)
	}
	return nil
}

// fetchNextFrame shifts the frame window by one and reads the next frame
// into its last slot. The stream ends once frames[1] runs out, so the final
// source frames are still played against duplicated edges.
func (r *Resampler) fetchNextFrame() error {
	// Shift frames: [0,1,2,3] -> [1,2,3,?]
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]
	r.hasFrame[3] = false

	if !r.eof {
		if err := r.readFrame(3); err != nil {
			return err
		}
	}

	if !r.hasFrame[1] {
		return io.EOF
	}
	return nil
}

// readFrame reads one source frame into frames[i], filtering it when
// downsampling. io.EOF is recorded, not returned.
func (r *Resampler) readFrame(i int) error {
	n, err := r.src.ReadSamples(r.srcBuf[:r.channels])
	if n > 0 {
		copy(r.frames[i], r.srcBuf[:n])
		r.hasFrame[i] = true

		if r.useFilter {
			if !r.primed && i == 1 {
				// Seed the filter with the first sample to avoid a warm-up transient.
				copy(r.filterState, r.frames[i])
			}
			for c := 0; c < r.channels; c++ {
				// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
				r.frames[i][c] = r.filterAlpha*r.frames[i][c] + (1-r.filterAlpha)*r.filterState[c]
				r.filterState[c] = r.frames[i][c]
			}
		}
	}

	switch {
	case err == io.EOF:
		r.eof = true
	case err != nil:
		return fmt.Errorf("resample: %w", err)
	}
	return nil
}

// prime fills frames[1..3]; frames[0] repeats the first frame so output
// starts exactly on it.
func (r *Resampler) prime() error {
	for i := 1; i < 4 && !r.eof; i++ {
		if err := r.readFrame(i); err != nil {
			return err
		}
	}
	r.primed = true

	if !r.hasFrame[1] {
		return io.EOF
	}
	copy(r.frames[0], r.frames[1])
	r.hasFrame[0] = true
	return nil
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		// pos stays in [0, 1) between frames[1] and frames[2]
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.fetchNextFrame(); err != nil {
				if err == io.EOF {
					if written == 0 {
						return 0, io.EOF
					}
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)

		for c := 0; c < r.channels; c++ {
			y0 := r.frames[0][c]
			y1 := r.frames[1][c]

			// Past the last source frame the edge is held.
			y2 := y1
			if r.hasFrame[2] {
				y2 = r.frames[2][c]
			}
			y3 := y2
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}

			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
