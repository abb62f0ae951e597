// Package clang tokenizes C source on top of text/scanner.
//
// Newlines are reported as NEWLINE tokens so the codec can substitute them;
// every other blank is left in the gaps between tokens for the encoder to
// copy. Preprocessor lines are tokenized like ordinary code.
//
// Character and string literals are scanned here rather than by
// text/scanner, which applies Go escape rules: C accepts '\0', '\?', '\x1'
// and multi-character constants such as 'ab'.
package clang

import (
	"strings"
	"text/scanner"

	"github.com/cbt-ml/cbt/internal/lexer"
)

const language = "c"

const scanMode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
	scanner.ScanComments

// Blanks skipped by the scanner. '\n' is deliberately absent.
const whitespace = 1<<'\t' | 1<<'\v' | 1<<'\f' | 1<<'\r' | 1<<' '

// Lexer tokenizes C. It is stateless and safe for concurrent calls.
type Lexer struct{}

// New returns a C lexer.
func New() *Lexer {
	return &Lexer{}
}

// Language returns "c".
func (*Lexer) Language() string { return language }

// Extensions returns the C source and header extensions.
func (*Lexer) Extensions() []string { return []string{".c", ".h"} }

// Tokenize lexes src into a token stream ending with ENDMARKER.
func (*Lexer) Tokenize(src string) ([]lexer.Token, error) {
	var (
		s     scanner.Scanner
		first *lexer.Error
	)
	s.Init(strings.NewReader(src))
	s.Mode = scanMode
	s.Whitespace = whitespace
	s.Error = func(s *scanner.Scanner, msg string) {
		if first != nil {
			return
		}
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		first = &lexer.Error{Language: language, Line: pos.Line, Col: pos.Column - 1, Msg: msg}
	}

	var toks []lexer.Token
	for tok := s.Scan(); tok != scanner.EOF && first == nil; tok = s.Scan() {
		t := lexer.Token{
			Kind:   classify(tok),
			Text:   s.TokenText(),
			Offset: s.Position.Offset,
			Line:   s.Position.Line,
			Col:    s.Position.Column - 1,
		}
		if tok == '\'' || tok == '"' {
			end, ok := literalEnd(src, t.Offset)
			switch {
			case ok:
				for s.Pos().Offset < end {
					s.Next()
				}
				t.Kind = lexer.KindString
				t.Text = src[t.Offset:end]
			case tok == '"':
				first = &lexer.Error{Language: language, Line: t.Line, Col: t.Col, Msg: "string literal not terminated"}
			}
			// An unterminated ' (an apostrophe in #error text) stays an
			// OP token of its own.
		}
		toks = append(toks, t)
	}
	if first != nil {
		return nil, first
	}

	end := s.Pos()
	toks = append(toks, lexer.Token{
		Kind:   lexer.KindEndMarker,
		Offset: end.Offset,
		Line:   end.Line,
		Col:    max(end.Column-1, 0),
	})
	return toks, nil
}

// literalEnd returns the offset just past the quote closing the literal
// that opens at src[start]. A backslash escapes the next byte, so escaped
// quotes and line splices stay inside. A newline or end of input before the
// closing quote leaves the literal unterminated.
func literalEnd(src string, start int) (int, bool) {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '\n':
			return 0, false
		case quote:
			return i + 1, true
		}
	}
	return 0, false
}

func classify(tok rune) lexer.Kind {
	switch tok {
	case scanner.Ident:
		return lexer.KindName
	case scanner.Int, scanner.Float:
		return lexer.KindNumber
	case scanner.Comment:
		return lexer.KindComment
	case '\n':
		return lexer.KindNewline
	case '@', '$', '`':
		return lexer.KindError
	}
	return lexer.KindOp
}
