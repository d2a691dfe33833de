// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	goaudio "github.com/go-audio/audio"
)

// PCMFormat is the sample layout a playback backend accepts for a buffer.
// Samples are interleaved; 8-bit samples are unsigned, 16-bit samples are
// signed little-endian.
type PCMFormat int

const (
	FormatUnknown PCMFormat = iota
	Mono8
	Mono16
	Stereo8
	Stereo16
)

func (f PCMFormat) String() string {
	switch f {
	case Mono8:
		return "Mono8"
	case Mono16:
		return "Mono16"
	case Stereo8:
		return "Stereo8"
	case Stereo16:
		return "Stereo16"
	default:
		return fmt.Sprintf("PCMFormat(%d)", int(f))
	}
}

// Channels returns 1 or 2, or 0 for an unknown format.
func (f PCMFormat) Channels() int {
	switch f {
	case Mono8, Mono16:
		return 1
	case Stereo8, Stereo16:
		return 2
	default:
		return 0
	}
}

// BitDepth returns 8 or 16, or 0 for an unknown format.
func (f PCMFormat) BitDepth() int {
	switch f {
	case Mono8, Stereo8:
		return 8
	case Mono16, Stereo16:
		return 16
	default:
		return 0
	}
}

// FrameSize is the number of bytes in one interleaved frame.
func (f PCMFormat) FrameSize() int {
	return f.Channels() * f.BitDepth() / 8
}

// GoAudioFormat describes f at sampleRate using go-audio's format type.
func (f PCMFormat) GoAudioFormat(sampleRate int) *goaudio.Format {
	return &goaudio.Format{
		NumChannels: f.Channels(),
		SampleRate:  sampleRate,
	}
}

// PCMFormatFor picks the backend format for a channel count and bit depth.
// Anything that is not 8-bit is stored as 16-bit, and channel counts other
// than 1 fall back to stereo.
func PCMFormatFor(channels, bitDepth int) PCMFormat {
	switch channels {
	case 1:
		if bitDepth == 8 {
			return Mono8
		}
		return Mono16
	case 2:
		if bitDepth == 8 {
			return Stereo8
		}
		return Stereo16
	}
	return Stereo16
}
