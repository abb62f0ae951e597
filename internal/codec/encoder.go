package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cbt-ml/cbt/internal/lexer"
	"github.com/cbt-ml/cbt/internal/symtab"
)

// indentWidth is the number of consecutive spaces folded into one
// INDENT-RUN symbol.
const indentWidth = 4

// Encoder turns the source of one file into an encoded stream.
//
// An Encoder holds no mutable state and may be shared between goroutines as
// long as its Lexer is safe for concurrent use.
type Encoder struct {
	table *symtab.Table
	lexer lexer.Lexer
}

// NewEncoder creates an encoder over table using lx to tokenize sources.
func NewEncoder(table *symtab.Table, lx lexer.Lexer) *Encoder {
	return &Encoder{table: table, lexer: lx}
}

// Lexer returns the lexer used by Encode.
func (e *Encoder) Lexer() lexer.Lexer {
	return e.lexer
}

// Encode lexes src and encodes it. On any failure nothing is returned, so a
// truncated stream can never reach a corpus.
func (e *Encoder) Encode(src string) (string, error) {
	toks, err := e.lexer.Tokenize(src)
	if err != nil {
		return "", fmt.Errorf("tokenize %s: %w", e.lexer.Language(), err)
	}
	return e.EncodeTokens(src, toks)
}

// EncodeTokens encodes src using a token stream produced elsewhere.
func (e *Encoder) EncodeTokens(src string, toks []lexer.Token) (string, error) {
	if err := e.checkReserved(src, toks); err != nil {
		return "", err
	}
	return e.encodeTokens(src, toks)
}

// checkReserved rejects reserved runes anywhere the stream could carry
// them. Comment tokens are dropped by the encoder and are not checked.
func (e *Encoder) checkReserved(src string, toks []lexer.Token) error {
	var comments []lexer.Token
	for _, tok := range toks {
		if tok.Kind == lexer.KindComment && tok.Offset >= 0 && tok.End() <= len(src) &&
			src[tok.Offset:tok.End()] == tok.Text {
			comments = append(comments, tok)
		}
	}

	line, col := 1, 0
	for i, r := range src {
		for len(comments) > 0 && comments[0].End() <= i {
			comments = comments[1:]
		}
		inComment := len(comments) > 0 && comments[0].Offset <= i
		if !inComment && e.table.IsReserved(r) {
			return &EncodeError{
				Type: TypeReserved,
				Text: string(r),
				Line: line,
				Col:  col,
				Err:  ErrReservedSymbol,
			}
		}
		if r == '\n' {
			line, col = line+1, 0
		} else {
			col++
		}
	}
	return nil
}

func (e *Encoder) encodeTokens(src string, toks []lexer.Token) (string, error) {
	var out strings.Builder
	out.Grow(len(src) + utf8.UTFMax)

	cursor := 0
	for _, tok := range toks {
		if tok.Kind.IsStructural() {
			continue
		}

		next, ok := e.copyGap(&out, src, cursor, tok.Text)
		if !ok {
			return "", &EncodeError{
				Type: TypeMismatch,
				Kind: tok.Kind,
				Text: tok.Text,
				Line: tok.Line,
				Col:  tok.Col,
				Err:  ErrStructuralMismatch,
			}
		}
		cursor = next + len(tok.Text)

		if tok.Kind == lexer.KindComment {
			continue
		}
		if sym, ok := e.table.Symbol(tok.Text); ok {
			out.WriteRune(sym)
			continue
		}
		if !tok.Kind.HasLiteralFallback() {
			return "", &EncodeError{
				Type: TypeUnmapped,
				Kind: tok.Kind,
				Text: tok.Text,
				Line: tok.Line,
				Col:  tok.Col,
				Err:  ErrUnmappedToken,
			}
		}
		out.WriteString(tok.Text)
	}

	// Whatever follows the last token (trailing blanks the lexer swallowed
	// without a token) is copied like any other gap.
	if cursor < len(src) {
		e.fold(&out, src[cursor:])
	}
	out.WriteRune(e.table.EOF())
	return out.String(), nil
}

// copyGap folds the source between cursor and the first occurrence of text
// into out and returns the cursor at that occurrence, or false if text does
// not occur ahead of cursor.
func (e *Encoder) copyGap(out *strings.Builder, src string, cursor int, text string) (int, bool) {
	if cursor > len(src) {
		return cursor, false
	}
	idx := strings.Index(src[cursor:], text)
	if idx < 0 {
		return cursor, false
	}
	e.fold(out, src[cursor:cursor+idx])
	return cursor + idx, true
}

// fold copies gap to out byte by byte, replacing every run of four
// consecutive spaces with an INDENT-RUN symbol. One to three spaces left at
// the end of a run stay literal.
func (e *Encoder) fold(out *strings.Builder, gap string) {
	spaces := 0 // always < indentWidth
	for i := 0; i < len(gap); i++ {
		if gap[i] == ' ' {
			spaces++
			if spaces == indentWidth {
				out.WriteRune(e.table.IndentRun())
				spaces = 0
			}
			continue
		}
		out.WriteString(strings.Repeat(" ", spaces))
		spaces = 0
		out.WriteByte(gap[i])
	}
	out.WriteString(strings.Repeat(" ", spaces))
}
