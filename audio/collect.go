// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/cafplay/utils"
)

// CollectInt16 drains src and returns every sample as 16-bit PCM, keeping the
// source's channel interleaving.
//
// bufferSize is the number of float32 values read per call; it is rounded down
// to a whole number of frames. The source is not closed.
//
// Example:
//
//	src, _ := decoder.Decode(file)
//	pcm16, err := audio.CollectInt16(src, 4096)
//	if err != nil {
//	    return err
//	}
func CollectInt16(src Source, bufferSize int) ([]int16, error) {
	channels := max(src.Channels(), 1)
	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = channels * 1024
	}

	pcm16 := make([]int16, 0, src.SampleRate()*channels)
	buf := make([]float32, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		for i := range n {
			pcm16 = append(pcm16, utils.Float32ToInt16(buf[i]))
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("collect samples: %w", err)
		}

		// A source that returns nothing without signalling EOF would spin forever.
		if n == 0 {
			break
		}
	}

	return pcm16, nil
}
