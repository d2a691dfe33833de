// SPDX-License-Identifier: EPL-2.0

// Package audio holds the streaming sample pipeline shared by the decoders,
// the loader and the output backend.
//
// Everything that produces samples implements Source, which yields
// interleaved float32 values in [-1, 1]. Sources chain:
//
//	src, _ := wav.Decoder{}.Decode(f)
//	res := audio.NewResampler(src, 44100) // rate, and speed via SetSpeed
//	out := audio.NewUpmixer(res, 2)        // or NewMonoMixer to fold down
//	pcm, err := audio.CollectInt16(out, 4096)
//
// ReadSamples follows io.Reader's contract: a call may return data together
// with io.EOF, and callers keep the data.
//
// PCMFormat names the four buffer layouts a playback backend accepts
// (Mono8, Mono16, Stereo8, Stereo16). Registry maps format keys such as
// "wav" to the Decoder that reads them.
package audio
