// SPDX-License-Identifier: EPL-2.0

package cafplay

import (
	"path/filepath"
	"strings"

	"github.com/ik5/cafplay/audio"
	"github.com/ik5/cafplay/formats/aiff"
	"github.com/ik5/cafplay/formats/caf"
	"github.com/ik5/cafplay/formats/mp3"
	"github.com/ik5/cafplay/formats/vorbis"
	"github.com/ik5/cafplay/formats/wav"
)

// Registry looks decoders up by format key. *audio.Registry implements it.
type Registry interface {
	Get(format string) (audio.Decoder, bool)
}

// NewRegistry returns a registry holding every decoder in this module under
// its format key: caf, wav, aiff, mp3 and ogg.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("caf", caf.Decoder{})
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	return reg
}

var extensionFormats = map[string]string{
	".caf":  "caf",
	".wav":  "wav",
	".wave": "wav",
	".aif":  "aiff",
	".aiff": "aiff",
	".aifc": "aiff",
	".mp3":  "mp3",
	".ogg":  "ogg",
	".oga":  "ogg",
}

// FormatOf maps a file name to its registry key by extension, or returns ""
// when the extension is unknown.
func FormatOf(path string) string {
	return extensionFormats[strings.ToLower(filepath.Ext(path))]
}
