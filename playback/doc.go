// SPDX-License-Identifier: EPL-2.0

// Package playback manages the resources needed to play one sound through an
// audio backend: a context, a source and a buffer.
//
// # Lifecycle
//
//	m, err := playback.Open(backend)   // Init: context, source, buffer
//	if err != nil {
//	    return err
//	}
//	defer m.Close()                    // Cleanup: source, buffer, context
//
//	if err := m.LoadFile("sound.caf"); err != nil {
//	    return err                     // *caf.FormatError inside
//	}
//	m.SetLoop(true)
//	m.Play()
//
// Every method except Init, Cleanup and the getters returns
// ErrNotInitialized outside the Init..Cleanup window. Cleanup is safe to call
// more than once.
//
// # Backends
//
// Backend is the capability set the Manager needs. The manager holds the
// context handle it created and passes it explicitly, so several managers
// can share one Backend value. See the output package for a device backed
// implementation.
//
// # Backend errors
//
// After each backend call the manager polls LastError. Failures are logged at
// warning level and kept in Errors; they never abort the call that caused
// them, so a manager can keep running in a degraded state. Degraded reports
// whether that has happened since Init.
package playback
