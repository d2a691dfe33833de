// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ik5/cafplay"
	"github.com/ik5/cafplay/formats/caf"
	"github.com/ik5/cafplay/formats/wav"
	"github.com/sirupsen/logrus"
)

// convert decodes in and writes it to out as 16-bit PCM. The output
// container follows out's extension.
func convert(reg cafplay.Registry, in, out string, sampleRate int) error {
	kind := cafplay.FormatOf(out)
	if kind != "caf" && kind != "wav" {
		return fmt.Errorf("%w: cannot write %s", cafplay.ErrUnknownFormat, out)
	}

	format, data, rate, err := cafplay.DecodeFile(reg, in, sampleRate)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	switch kind {
	case "caf":
		err = caf.Encode(f, caf.DescriptorFor(format, rate), caf.WithEditCount(data))
	case "wav":
		samples := make([]int16, len(data)/2)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		err = wav.WriteWAV16(f, rate, format.Channels(), samples)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	logrus.WithFields(logrus.Fields{
		"in":     in,
		"out":    out,
		"format": format,
		"rate":   rate,
	}).Info("converted")
	return nil
}
