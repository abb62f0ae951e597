package corpus

import (
	"errors"
	"fmt"
)

// Corpus store and build errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: corpus may be corrupted")
	ErrUnterminated       = errors.New("corpus does not end with the EOF symbol")
	ErrUnknownPolicy      = errors.New("unknown failure policy")
	ErrUnsupportedVersion = errors.New("unsupported manifest format version")
	ErrInvalidUTF8        = errors.New("source is not valid UTF-8")
)

// Class groups per-file failures.
type Class string

// Failure classes.
const (
	ClassRead     Class = "read"
	ClassLanguage Class = "language"
	ClassLex      Class = "lex"
	ClassUnmapped Class = "unmapped"
	ClassMismatch Class = "mismatch"
	ClassReserved Class = "reserved"
)

// Failure records a file left out of the corpus.
type Failure struct {
	Path     string
	Class    Class
	Err      error
	Reported bool // not silenced by the build's policy
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Path, f.Class, f.Err)
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}
