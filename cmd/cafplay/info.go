// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/cafplay"
	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/formats/caf"
)

// describe prints the layout of the file at path. CAF files show their
// descriptor as stored; everything else shows the PCM it decodes to.
func describe(w io.Writer, reg cafplay.Registry, path string) error {
	if cafplay.FormatOf(path) == "caf" {
		return describeCAF(w, path)
	}

	format, data, sampleRate, err := cafplay.DecodeFile(reg, path, 0)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %v at %d Hz, %d bytes, %v\n",
		path, format, sampleRate, len(data), playTime(format, sampleRate, len(data), 1))
	return err
}

func describeCAF(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d, data, err := caf.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	_, err = fmt.Fprintf(w, "%s"+
		"\tdata bytes         = %d\n"+
		"\tduration           = %v\n",
		d, len(data), playTime(d.PCMFormat(), int(d.SampleRate), len(data), 1))
	return err
}

// playTime is how long size bytes of format last at sampleRate when played
// at pitch. It is zero for anything it cannot work out.
func playTime(format audio.PCMFormat, sampleRate, size int, pitch float64) time.Duration {
	frameSize := format.FrameSize()
	if frameSize == 0 || sampleRate <= 0 || pitch <= 0 {
		return 0
	}
	frames := size / frameSize
	seconds := float64(frames) / float64(sampleRate) / pitch
	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
}
