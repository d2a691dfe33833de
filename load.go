// SPDX-License-Identifier: EPL-2.0

package cafplay

import (
	"fmt"
	"os"

	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/playback"
	"github.com/sirupsen/logrus"
)

const decodeBufferSize = 4096

// LoadFile loads the file at path into m, picking the decoder by extension.
// CAF files go through Manager.LoadFile so their payload reaches the
// backend unchanged; other formats are decoded with DecodeFile.
func LoadFile(m *playback.Manager, reg Registry, path string) error {
	if FormatOf(path) == "caf" {
		return m.LoadFile(path)
	}

	format, data, rate, err := DecodeFile(reg, path, 0)
	if err != nil {
		return err
	}
	return m.LoadPCM(format, data, rate)
}

// DecodeFile decodes the file at path with the decoder reg holds for its
// extension and converts it with DecodePCM16. A positive sampleRate
// resamples the audio to that rate first; zero keeps the file's rate.
func DecodeFile(reg Registry, path string, sampleRate int) (audio.PCMFormat, []byte, int, error) {
	key := FormatOf(path)
	if key == "" {
		return audio.FormatUnknown, nil, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	dec, ok := reg.Get(key)
	if !ok {
		return audio.FormatUnknown, nil, 0, fmt.Errorf("%w: no %s decoder registered", ErrUnknownFormat, key)
	}

	f, err := os.Open(path)
	if err != nil {
		return audio.FormatUnknown, nil, 0, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return audio.FormatUnknown, nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	defer src.Close()

	var pipeline audio.Source = src
	if sampleRate > 0 && src.SampleRate() > 0 && sampleRate != src.SampleRate() {
		pipeline = audio.NewResampler(src, sampleRate)
	}

	format, data, rate, err := DecodePCM16(pipeline, decodeBufferSize)
	if err != nil {
		return audio.FormatUnknown, nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":   path,
		"format": format,
		"rate":   rate,
		"bytes":  len(data),
	}).Debug("decoded audio file")

	return format, data, rate, nil
}
