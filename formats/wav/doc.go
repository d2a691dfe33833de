// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE files through go-audio/wav.
//
// The Decoder accepts integer PCM at 8, 16, 24 or 32 bits and yields an
// audio.Source with samples in [-1, 1]. Readers that cannot seek are
// buffered in memory first.
//
// WriteWAV16 writes interleaved 16-bit samples:
//
//	f, _ := os.Create("out.wav")
//	err := wav.WriteWAV16(f, 44100, 2, samples)
package wav
