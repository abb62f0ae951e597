package corpus

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// LoadSource reads a source file as UTF-8 text. A UTF-8 or UTF-16 byte
// order mark selects the encoding and is dropped. Without a UTF-16 BOM the
// bytes must be valid UTF-8.
func LoadSource(path, language string) (Source, error) {
	//nolint:gosec // G304: reading user-selected source files is the point.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read source: %w", err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return Source{Path: path, Language: language, Text: text}, nil
}

func decodeText(raw []byte) (string, error) {
	utf16 := bytes.HasPrefix(raw, bomUTF16BE) || bytes.HasPrefix(raw, bomUTF16LE)
	if !utf16 && !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), dec))
	if err != nil {
		return "", fmt.Errorf("failed to decode source: %w", err)
	}
	return string(out), nil
}
