// SPDX-License-Identifier: EPL-2.0

package playback

import "fmt"

// State is the lifecycle position of a Manager as driven by its own calls.
// The backend may finish a non-looping sound on its own; State still reports
// Playing until Stop, Pause or Load is called.
type State int

const (
	Uninitialized State = iota
	Ready
	Loaded
	Playing
	Paused
	Released
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case Loaded:
		return "Loaded"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Released:
		return "Released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) live() bool {
	return s != Uninitialized && s != Released
}

func (s State) hasBuffer() bool {
	return s == Loaded || s == Playing || s == Paused
}
