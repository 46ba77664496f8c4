package mailparse

import (
	"bytes"
	"io"
	"strings"

	"github.com/wlynxg/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DecodeCharset converts data in charset to UTF-8. An empty charset is detected.
// Unknown charsets are passed through unchanged.
func DecodeCharset(charset string, data []byte) (string, error) {
	if charset == "" {
		detector := chardet.NewUniversalDetector(0)
		detector.Feed(data)
		charset = detector.GetResult().Encoding
	}

	var decoder *encoding.Decoder

	switch strings.ToLower(charset) {
	case "windows-1252":
		decoder = charmap.Windows1252.NewDecoder()
	case "iso-8859-1":
		decoder = charmap.ISO8859_1.NewDecoder()
	case "iso-8859-15":
		decoder = charmap.ISO8859_15.NewDecoder()
	case "windows-1250":
		decoder = charmap.Windows1250.NewDecoder()
	case "", "utf-8", "us-ascii", "ascii":
		return string(data), nil
	default:
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return string(data), nil
		}
		decoder = enc.NewDecoder()
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
