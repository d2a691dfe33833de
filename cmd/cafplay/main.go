// SPDX-License-Identifier: EPL-2.0

// Command cafplay plays an audio file through the default output device.
// It can also print a file's layout or convert it to CAF or WAV.
//
//	cafplay [-loop] [-pitch f] [-for d] file
//	cafplay -info file
//	cafplay -convert out.caf [-rate hz] file
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ik5/cafplay"
	"github.com/sirupsen/logrus"
)

var (
	loop      = flag.Bool("loop", false, "Loop playback until interrupted")
	pitch     = flag.Float64("pitch", 1, "Playback pitch multiplier")
	playFor   = flag.Duration("for", 0, "Stop playback after this long (0 plays the file once)")
	info      = flag.Bool("info", false, "Print the file layout and exit")
	convertTo = flag.String("convert", "", "Write the input to this .caf or .wav file instead of playing it")
	rate      = flag.Int("rate", 0, "Sample rate for -convert output (0 keeps the input rate)")
	verbose   = flag.Bool("v", false, "Log debug output")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file.{caf|wav|aiff|mp3|ogg}>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)
	reg := cafplay.NewRegistry()

	var err error
	switch {
	case *info:
		err = describe(os.Stdout, reg, path)
	case *convertTo != "":
		err = convert(reg, path, *convertTo, *rate)
	default:
		err = play(reg, path, playOptions{
			loop:     *loop,
			pitch:    *pitch,
			duration: *playFor,
		})
	}
	if err != nil {
		logrus.WithError(err).WithField("path", path).Fatal("cafplay failed")
	}
}
