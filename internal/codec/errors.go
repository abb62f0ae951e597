package codec

import (
	"errors"
	"fmt"

	"github.com/cbt-ml/cbt/internal/lexer"
)

// Per-file encoding failures. Lexer failures surface as lexer.ErrLex.
var (
	ErrUnmappedToken      = errors.New("token has no table entry and no literal fallback")
	ErrStructuralMismatch = errors.New("token text not found ahead of cursor")
	ErrReservedSymbol     = errors.New("source contains a reserved symbol")
)

// Error types reported in EncodeError.Type.
const (
	TypeUnmapped = "unmapped_token"
	TypeMismatch = "structural_mismatch"
	TypeReserved = "reserved_symbol"
)

// EncodeError carries the position of a failed encode.
type EncodeError struct {
	Type string     // one of the Type* constants
	Kind lexer.Kind // kind of the offending token, if any
	Text string     // offending token text or rune
	Line int        // 1-based
	Col  int        // 0-based
	Err  error      // sentinel
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s %q: %v", e.Type, e.Line, e.Col, e.Kind, e.Text, e.Err)
}

// Unwrap returns the sentinel error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}
