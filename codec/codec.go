// Package codec turns source code into a compact symbol stream and back.
//
// Reserved words and a few structural characters are replaced by single
// runes from U+1286..U+1323, comments are dropped and every four spaces of
// indentation fold into one symbol. Decoding restores the text, minus
// comments. Files are joined into a corpus with an EOF symbol after each.
//
// Example usage:
//
//	import "github.com/cbt-ml/cbt/codec"
//
//	enc, err := codec.NewEncoder("python")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stream, err := enc.Encode("if True:\n    pass\n")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text := codec.NewDecoder().DecodeFile(stream)
package codec

import (
	"github.com/cbt-ml/cbt/internal/codec"
	"github.com/cbt-ml/cbt/internal/lexer"
	"github.com/cbt-ml/cbt/internal/lexer/langs"
	"github.com/cbt-ml/cbt/internal/symtab"
)

// Table is the bijective word <-> symbol mapping.
type Table = symtab.Table

// Encoder converts source text to a symbol stream.
type Encoder = codec.Encoder

// Decoder converts symbol streams back to text.
type Decoder = codec.Decoder

// Splitter cuts a corpus into per-file streams.
type Splitter = codec.Splitter

// EncodeError describes a failed encode.
type EncodeError = codec.EncodeError

// Encoding errors.
var (
	ErrUnmappedToken      = codec.ErrUnmappedToken
	ErrStructuralMismatch = codec.ErrStructuralMismatch
	ErrReservedSymbol     = codec.ErrReservedSymbol
	ErrLex                = lexer.ErrLex
)

// EOF is the symbol that ends every file in a corpus.
const EOF = symtab.EOF

// DefaultTable returns the version 1 table.
func DefaultTable() *Table {
	return symtab.Default()
}

// Languages returns the names of the built-in lexers.
func Languages() []string {
	return langs.Default().Languages()
}

// NewEncoder creates an encoder for a built-in language using the default
// table. Aliases ("py3") and extensions ("py") are accepted.
func NewEncoder(language string) (*Encoder, error) {
	lx, err := langs.Default().ForLanguage(language)
	if err != nil {
		return nil, err
	}
	return codec.NewEncoder(symtab.Default(), lx), nil
}

// NewDecoder creates a decoder for the default table.
func NewDecoder() *Decoder {
	return codec.NewDecoder(symtab.Default())
}

// NewSplitter creates a splitter for the default table.
func NewSplitter() *Splitter {
	return codec.NewSplitter(symtab.Default())
}
