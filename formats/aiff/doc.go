// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through go-audio/aiff.
//
// Integer PCM at 8, 16, 24 or 32 bits is supported, any channel count and
// sample rate. Samples come out as float32 in [-1, 1]:
//
//	f, _ := os.Open("bell.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//		return err
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// Readers that cannot seek are read fully into memory first.
package aiff
