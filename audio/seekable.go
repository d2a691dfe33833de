// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"io"
)

// Seekable returns r itself when it can seek, otherwise its full contents
// in memory. The go-audio decoders need to seek back over chunk headers.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
