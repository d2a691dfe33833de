// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrInvalidDstSize is returned when a read buffer cannot hold a whole
	// number of frames.
	ErrInvalidDstSize = errors.New("destination length is not a whole number of frames")
	ErrInvalidSpeed   = errors.New("speed must be a positive finite number")
)
