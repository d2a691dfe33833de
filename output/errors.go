// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrUnknownContext = errors.New("unknown output context")
	ErrChannels       = errors.New("output supports 1 or 2 channels")
)
