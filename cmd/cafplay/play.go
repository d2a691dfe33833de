// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/cafplay"
	"github.com/ik5/cafplay/output"
	"github.com/ik5/cafplay/playback"
	"github.com/sirupsen/logrus"
)

type playOptions struct {
	loop     bool
	pitch    float64
	duration time.Duration // zero waits for the file to finish
}

func (o playOptions) validate() error {
	if o.pitch <= 0 || math.IsNaN(o.pitch) || math.IsInf(o.pitch, 0) {
		return fmt.Errorf("pitch must be a positive number, got %v", o.pitch)
	}
	if o.duration < 0 {
		return fmt.Errorf("duration must not be negative, got %v", o.duration)
	}
	return nil
}

// wait picks how long to let the source play. Zero means until interrupted.
func (o playOptions) wait(info playback.BufferInfo) time.Duration {
	if o.duration > 0 || o.loop {
		return o.duration
	}
	// Leave room for the device to drain its buffer.
	return playTime(info.Format, info.SampleRate, info.Size, o.pitch) + 2*output.DefaultBufferSize
}

func play(reg cafplay.Registry, path string, opts playOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	backend, err := output.NewOto(output.Options{
		Logger: logrus.WithField("component", "output"),
	})
	if err != nil {
		return err
	}

	log := logrus.WithField("component", "playback")
	m, err := playback.Open(backend, playback.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.WithError(err).Warn("cleanup failed")
		}
	}()

	if err := cafplay.LoadFile(m, reg, path); err != nil {
		return err
	}
	if err := m.SetLoop(opts.loop); err != nil {
		return err
	}
	if err := m.SetPitch(float32(opts.pitch)); err != nil {
		return err
	}
	if err := m.Play(); err != nil {
		return err
	}
	if m.Degraded() {
		log.WithField("errors", len(m.Errors())).Warn("playback degraded")
	}

	info, _ := m.Loaded()
	log.WithFields(logrus.Fields{
		"path":   path,
		"format": info.Format,
		"rate":   info.SampleRate,
		"loop":   opts.loop,
		"pitch":  opts.pitch,
	}).Info("playing")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var done <-chan time.Time
	if d := opts.wait(info); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		done = timer.C
	}

	select {
	case <-done:
		log.Debug("playback finished")
	case sig := <-sigChan:
		log.WithField("signal", sig).Info("interrupted")
	}

	return m.Stop()
}
