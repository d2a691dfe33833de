// SPDX-License-Identifier: EPL-2.0

package cafplay

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/cafplay/audio"
)

// DecodePCM16 drains src into interleaved 16-bit little-endian PCM in a
// layout a playback backend accepts. Mono and stereo sources keep their
// channels; anything wider is mixed down to mono. The returned rate is the
// source's.
//
// bufferSize is the number of float32 values read per call (e.g. 4096).
//
// The source is not closed.
func DecodePCM16(src audio.Source, bufferSize int) (audio.PCMFormat, []byte, int, error) {
	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		return audio.FormatUnknown, nil, 0, fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedSource, src.SampleRate(), src.Channels())
	}

	var pipeline audio.Source = src
	if src.Channels() > 2 {
		pipeline = audio.NewMonoMixer(src)
	}
	format := audio.PCMFormatFor(pipeline.Channels(), 16)

	samples, err := audio.CollectInt16(pipeline, bufferSize)
	if err != nil {
		return audio.FormatUnknown, nil, 0, fmt.Errorf("decode pcm: %w", err)
	}

	// Drop a trailing partial frame; backends reject it.
	samples = samples[:len(samples)-len(samples)%pipeline.Channels()]

	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	return format, data, src.SampleRate(), nil
}
