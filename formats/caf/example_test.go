// SPDX-License-Identifier: EPL-2.0

package caf_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/cafplay/formats/caf"
)

// Example_parse demonstrates reading the descriptor and payload of a container.
func Example_parse() {
	desc := caf.Descriptor{
		SampleRate:       22050,
		FormatID:         caf.FormatLinearPCM,
		FormatFlags:      caf.FlagIsLittleEndian,
		BytesPerPacket:   2,
		FramesPerPacket:  1,
		ChannelsPerFrame: 1,
		BitsPerChannel:   16,
	}

	var file bytes.Buffer
	caf.Encode(&file, desc, []byte{0x00, 0x10, 0x00, 0xf0})

	got, payload, err := caf.Parse(&file)
	if err != nil {
		fmt.Printf("Parse error: %v\n", err)
		return
	}

	fmt.Printf("Sample rate: %v Hz\n", got.SampleRate)
	fmt.Printf("Backend format: %v\n", got.PCMFormat())
	fmt.Printf("Payload: %d bytes\n", len(payload))
	// Output:
	// Sample rate: 22050 Hz
	// Backend format: Mono16
	// Payload: 4 bytes
}

// Example_errorHandling demonstrates inspecting a parse failure.
func Example_errorHandling() {
	_, _, err := caf.Parse(bytes.NewReader([]byte("caff\x00\x01\x00\x00")))

	var fe *caf.FormatError
	if errors.As(err, &fe) {
		fmt.Println("Kind:", fe.Kind)
	}
	fmt.Println("Missing data:", errors.Is(err, caf.ErrMissingDataChunk))
	// Output:
	// Kind: MissingDataChunk
	// Missing data: true
}

// Example_decoding demonstrates reading a container as float samples.
func Example_decoding() {
	desc := caf.Descriptor{
		SampleRate:       8000,
		FormatID:         caf.FormatLinearPCM,
		FormatFlags:      caf.FlagIsLittleEndian,
		BytesPerPacket:   4,
		FramesPerPacket:  1,
		ChannelsPerFrame: 2,
		BitsPerChannel:   16,
	}

	var file bytes.Buffer
	caf.Encode(&file, desc, caf.WithEditCount([]byte{0x00, 0x40, 0x00, 0xc0}))

	src, err := caf.Decoder{}.Decode(&file)
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
		return
	}

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if err != nil && err != io.EOF {
		fmt.Printf("Read error: %v\n", err)
		return
	}

	fmt.Printf("Channels: %d\n", src.Channels())
	fmt.Printf("Samples: %v\n", buf[:n])
	// Output:
	// Channels: 2
	// Samples: [0.5 -0.5]
}
