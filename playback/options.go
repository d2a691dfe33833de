// SPDX-License-Identifier: EPL-2.0

package playback

import "github.com/sirupsen/logrus"

// Option configures a Manager.
//
// Example:
//
//	m := playback.New(backend,
//	    playback.WithLogger(logger.WithField("component", "audio")),
//	    playback.WithErrorHistory(8),
//	)
type Option func(*options)

type options struct {
	logger       logrus.FieldLogger
	historyLimit int // 0 keeps every error
}

func defaultOptions() *options {
	return &options{
		logger:       logrus.StandardLogger(),
		historyLimit: 32,
	}
}

// WithLogger sets the logger backend errors and lifecycle events go to.
// Defaults to logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithErrorHistory bounds how many backend errors Errors keeps. The oldest
// entries are dropped first. Zero keeps all of them. Defaults to 32.
func WithErrorHistory(n int) Option {
	return func(o *options) {
		o.historyLimit = max(n, 0)
	}
}
