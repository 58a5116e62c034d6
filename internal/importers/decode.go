package importers

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText turns the raw bytes of a clippings file into text. A UTF-16
// or UTF-8 byte order mark selects the encoding and is stripped; without
// one the data is read as UTF-8 and invalid bytes become U+FFFD.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode clippings: %w", err)
	}
	return string(out), nil
}

// ReadText reads at most limit bytes from r and decodes them. It fails
// when r holds more than limit bytes.
func ReadText(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read clippings: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w (max %d bytes)", ErrTooLarge, limit)
	}
	return DecodeText(data)
}
