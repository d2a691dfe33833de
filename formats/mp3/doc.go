// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III audio through hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo, whatever the channel mode of
// the stream; mono files come out with both channels equal.
package mp3
