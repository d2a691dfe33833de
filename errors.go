// SPDX-License-Identifier: EPL-2.0

package cafplay

import "errors"

var (
	ErrUnknownFormat     = errors.New("unknown audio file format")
	ErrUnsupportedSource = errors.New("source has no usable sample rate or channels")
)
