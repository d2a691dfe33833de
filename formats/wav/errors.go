// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input has no readable RIFF/WAVE header.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrOnlyPCMSupported indicates a compressed or float WAV.
	ErrOnlyPCMSupported = errors.New("only integer PCM WAV is supported")

	// ErrUnsupportedBitDepth indicates a sample width other than 8, 16, 24 or 32 bits.
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")

	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
)
