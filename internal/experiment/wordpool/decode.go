package wordpool

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding names the text encoding of data: "utf-8", "utf-16le",
// "utf-16be" or "gb18030".
//
// BOMs win; otherwise valid UTF-8 is taken as-is and anything else is assumed
// to be a legacy Chinese code page, which GB18030 covers as a superset of GBK
// and GB2312.
func DetectEncoding(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return "utf-8"
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be"
	case utf8.Valid(data):
		return "utf-8"
	default:
		return "gb18030"
	}
}

// DecodeText converts data to a UTF-8 string with any BOM removed.
func DecodeText(data []byte) (string, error) {
	var decoder *encoding.Decoder
	switch DetectEncoding(data) {
	case "utf-16le":
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case "utf-16be":
		decoder = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case "gb18030":
		decoder = simplifiedchinese.GB18030.NewDecoder()
	default:
		return string(bytes.TrimPrefix(data, bomUTF8)), nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return "", fmt.Errorf("transform text: %w", err)
	}
	return string(out), nil
}
