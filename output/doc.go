// SPDX-License-Identifier: EPL-2.0

// Package output plays playback buffers on the system audio device through
// ebitengine/oto.
//
// The device runs at one sample rate and channel count. Each source renders
// its buffer into that layout on the fly:
//
//	buffer bytes -> Resampler (rate x pitch) -> MonoMixer / Upmixer -> int16 LE
//
// Only one device can exist per process, so create a single Oto and share
// it between managers.
package output
