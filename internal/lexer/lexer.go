package lexer

import (
	"errors"
	"fmt"
)

// ErrLex is returned (wrapped in *Error) when input cannot be tokenized.
var ErrLex = errors.New("lex error")

// Lexer turns the source of one file into an ordered token stream.
//
// Implementations must report comments as KindComment and must return tokens
// whose Text appears in the source in stream order. A Lexer must be safe for
// concurrent use; the batch driver shares one per language across workers.
type Lexer interface {
	// Language returns the canonical language name (e.g., "python").
	Language() string

	// Extensions returns file extensions handled, with the leading dot.
	Extensions() []string

	// Tokenize lexes src. On failure it returns an *Error.
	Tokenize(src string) ([]Token, error)
}

// Error describes a tokenization failure.
type Error struct {
	Language string
	Line     int
	Col      int
	Msg      string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Language, e.Line, e.Col, e.Msg)
}

// Unwrap returns ErrLex so callers can match with errors.Is.
func (e *Error) Unwrap() error {
	return ErrLex
}
