// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio through jfreymuth/oggvorbis.
//
// Sources keep the stream's channel count; reads are trimmed to whole
// frames, so dst should hold at least one sample per channel.
package vorbis
