// SPDX-License-Identifier: EPL-2.0

// Package cafplay plays Core Audio Format clips through an audio backend.
//
// The pieces live in subpackages:
//   - formats/caf parses and writes CAF containers
//   - playback drives a Backend through a single source and buffer
//   - output is the Backend for the system audio device
//   - formats/wav, aiff, mp3 and vorbis decode other inputs
//
// This package ties them together. LoadFile hands CAF payloads to the
// manager untouched and decodes anything else to 16-bit PCM first:
//
//	backend, _ := output.NewOto(output.Options{})
//	m, err := playback.Open(backend)
//	if err != nil {
//		return err
//	}
//	defer m.Cleanup()
//
//	if err := cafplay.LoadFile(m, cafplay.NewRegistry(), "bell.caf"); err != nil {
//		return err
//	}
//	m.SetLoop(true)
//	m.Play()
package cafplay
