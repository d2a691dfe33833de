// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by every call made outside Init..Cleanup
	ErrNotInitialized = errors.New("playback manager not initialized")

	// ErrAlreadyInitialized is returned by Init on a live manager
	ErrAlreadyInitialized = errors.New("playback manager already initialized")
)

// BackendError records a non-zero ErrorCode reported after an operation.
// Backend errors never abort the operation that raised them.
type BackendError struct {
	Op   string
	Code ErrorCode
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error after %s: %v (%d)", e.Op, e.Code, int(e.Code))
}
