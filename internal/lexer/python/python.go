// Package python tokenizes Python source the way the standard tokenize
// module does, as far as the symbol codec cares: names, numbers, strings,
// operators, NEWLINE/NL, comments and the INDENT/DEDENT bookkeeping.
package python

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cbt-ml/cbt/internal/lexer"
)

const language = "python"

// tabSize is the column width a tab advances to, as in CPython.
const tabSize = 8

// Operators by length, longest first.
var (
	ops3 = []string{"**=", "//=", ">>=", "<<=", "..."}
	ops2 = []string{
		"!=", "%=", "&=", "**", "*=", "+=", "-=", "->", "//", "/=",
		":=", "<<", "<=", "==", ">=", ">>", "@=", "^=", "|=",
	}
	ops1 = "%&()*+,-./:;<=>@[]^{|}~"
)

// Lexer tokenizes Python 3 source. The zero value is ready to use and safe
// for concurrent calls.
type Lexer struct{}

// New returns a Python lexer.
func New() *Lexer {
	return &Lexer{}
}

// Language returns "python".
func (*Lexer) Language() string { return language }

// Extensions returns the Python file extensions.
func (*Lexer) Extensions() []string { return []string{".py", ".pyw"} }

// Tokenize lexes src into a token stream ending with ENDMARKER.
func (*Lexer) Tokenize(src string) ([]lexer.Token, error) {
	s := &scanner{
		src:         src,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
	return s.run()
}

type scanner struct {
	src       string
	pos       int
	line      int
	lineStart int

	indents     []int
	depth       int  // open brackets
	atLineStart bool // next token starts a physical line outside brackets
	lineHasCode bool // current logical line produced a non-comment token

	toks []lexer.Token
}

type mark struct {
	off, line, col int
}

func (s *scanner) mark() mark {
	return mark{off: s.pos, line: s.line, col: utf8.RuneCountInString(s.src[s.lineStart:s.pos])}
}

func (s *scanner) emit(kind lexer.Kind, m mark) {
	s.toks = append(s.toks, lexer.Token{
		Kind:   kind,
		Text:   s.src[m.off:s.pos],
		Offset: m.off,
		Line:   m.line,
		Col:    m.col,
	})
	if kind != lexer.KindComment && kind != lexer.KindNL && kind != lexer.KindNewline && !kind.IsStructural() {
		s.lineHasCode = true
	}
}

func (s *scanner) errorf(m mark, msg string) error {
	return &lexer.Error{Language: language, Line: m.line, Col: m.col, Msg: msg}
}

func (s *scanner) run() ([]lexer.Token, error) {
	for {
		if s.atLineStart {
			if err := s.indentation(); err != nil {
				return nil, err
			}
		}
		s.skipBlanks()
		if s.pos >= len(s.src) {
			break
		}

		c := s.src[s.pos]
		var err error
		switch {
		case c == '#':
			s.comment()
		case c == '\n' || c == '\r':
			s.newline()
		case c == '\\':
			err = s.continuation()
		case c == '"' || c == '\'':
			err = s.str(s.mark())
		case isDigit(c) || (c == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1])):
			s.number()
		default:
			r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
			if isIdentStart(r) {
				err = s.name()
			} else {
				s.operator()
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return s.finish()
}

func (s *scanner) skipBlanks() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\f':
			s.pos++
		default:
			return
		}
	}
}

// indentation measures the leading whitespace of a physical line and emits
// INDENT/DEDENT tokens. Blank and comment-only lines leave the stack alone.
func (s *scanner) indentation() error {
	s.atLineStart = false
	m := s.mark()

	width := 0
	for ; s.pos < len(s.src); s.pos++ {
		switch s.src[s.pos] {
		case ' ':
			width++
			continue
		case '\t':
			width = (width/tabSize + 1) * tabSize
			continue
		case '\f':
			width = 0
			continue
		}
		break
	}
	if s.pos >= len(s.src) {
		return nil
	}
	switch s.src[s.pos] {
	case '#', '\n', '\r':
		return nil
	}

	top := s.indents[len(s.indents)-1]
	if width > top {
		s.indents = append(s.indents, width)
		s.emit(lexer.KindIndent, m)
		return nil
	}

	at := s.mark()
	for width < top {
		s.indents = s.indents[:len(s.indents)-1]
		top = s.indents[len(s.indents)-1]
		s.emit(lexer.KindDedent, at)
	}
	if width != top {
		return s.errorf(at, "unindent does not match any outer indentation level")
	}
	return nil
}

func (s *scanner) comment() {
	m := s.mark()
	for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
		s.pos++
	}
	s.emit(lexer.KindComment, m)
}

func (s *scanner) newline() {
	m := s.mark()
	s.skipNewline()

	kind := lexer.KindNL
	if s.depth == 0 && s.lineHasCode {
		kind = lexer.KindNewline
	}
	s.emit(kind, m)

	s.line++
	s.lineStart = s.pos
	if s.depth == 0 {
		s.atLineStart = true
		s.lineHasCode = false
	}
}

// skipNewline consumes "\n", "\r\n" or "\r" at pos.
func (s *scanner) skipNewline() {
	if s.src[s.pos] == '\r' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
		s.pos += 2
		return
	}
	s.pos++
}

// continuation consumes a backslash that joins two physical lines.
func (s *scanner) continuation() error {
	m := s.mark()
	s.pos++
	if s.pos >= len(s.src) {
		return s.errorf(m, "unexpected EOF after line continuation character")
	}
	if c := s.src[s.pos]; c != '\n' && c != '\r' {
		return s.errorf(m, "unexpected character after line continuation character")
	}
	s.skipNewline()
	s.line++
	s.lineStart = s.pos
	return nil
}

func (s *scanner) name() error {
	m := s.mark()
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentPart(r) {
			break
		}
		s.pos += size
	}
	if s.pos < len(s.src) && (s.src[s.pos] == '"' || s.src[s.pos] == '\'') && isStringPrefix(s.src[m.off:s.pos]) {
		return s.str(m)
	}
	s.emit(lexer.KindName, m)
	return nil
}

// str scans a string literal whose quote is at pos; m marks the start of the
// token, which includes any prefix already consumed.
func (s *scanner) str(m mark) error {
	quote := s.src[s.pos]
	triple := strings.Repeat(string(quote), 3)

	if strings.HasPrefix(s.src[s.pos:], triple) {
		s.pos += 3
		for {
			if s.pos >= len(s.src) {
				return s.errorf(m, "unterminated triple-quoted string literal")
			}
			switch c := s.src[s.pos]; {
			case c == '\\':
				s.pos++
				if s.pos < len(s.src) {
					s.consumeStringChar()
				}
			case strings.HasPrefix(s.src[s.pos:], triple):
				s.pos += 3
				s.emit(lexer.KindString, m)
				return nil
			default:
				s.consumeStringChar()
			}
		}
	}

	s.pos++
	for {
		if s.pos >= len(s.src) || s.src[s.pos] == '\n' || s.src[s.pos] == '\r' {
			return s.errorf(m, "unterminated string literal")
		}
		switch c := s.src[s.pos]; c {
		case '\\':
			s.pos++
			if s.pos < len(s.src) {
				s.consumeStringChar()
			}
		case quote:
			s.pos++
			s.emit(lexer.KindString, m)
			return nil
		default:
			s.pos++
		}
	}
}

// consumeStringChar advances over one byte inside a string literal, keeping
// line accounting straight when that byte starts a newline.
func (s *scanner) consumeStringChar() {
	if c := s.src[s.pos]; c == '\n' || c == '\r' {
		s.skipNewline()
		s.line++
		s.lineStart = s.pos
		return
	}
	s.pos++
}

func (s *scanner) number() {
	m := s.mark()
	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) && strings.IndexByte("xXoObB", s.src[s.pos+1]) >= 0 {
		s.pos += 2
		s.consume(func(c byte) bool { return isHexDigit(c) || c == '_' })
		s.emit(lexer.KindNumber, m)
		return
	}

	digits := func(c byte) bool { return isDigit(c) || c == '_' }
	s.consume(digits)
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		s.consume(digits)
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		next := s.pos + 1
		if next < len(s.src) && (s.src[next] == '+' || s.src[next] == '-') {
			next++
		}
		if next < len(s.src) && isDigit(s.src[next]) {
			s.pos = next
			s.consume(digits)
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'j' || s.src[s.pos] == 'J') {
		s.pos++
	}
	s.emit(lexer.KindNumber, m)
}

func (s *scanner) consume(ok func(byte) bool) {
	for s.pos < len(s.src) && ok(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) operator() {
	m := s.mark()
	rest := s.src[s.pos:]
	for _, group := range [][]string{ops3, ops2} {
		for _, op := range group {
			if strings.HasPrefix(rest, op) {
				s.pos += len(op)
				s.emit(lexer.KindOp, m)
				return
			}
		}
	}

	if strings.IndexByte(ops1, rest[0]) >= 0 {
		switch rest[0] {
		case '(', '[', '{':
			s.depth++
		case ')', ']', '}':
			if s.depth > 0 {
				s.depth--
			}
		}
		s.pos++
		s.emit(lexer.KindOp, m)
		return
	}

	_, size := utf8.DecodeRuneInString(rest)
	s.pos += size
	s.emit(lexer.KindError, m)
}

func (s *scanner) finish() ([]lexer.Token, error) {
	m := s.mark()
	if s.depth > 0 {
		return nil, s.errorf(m, "unexpected EOF in multi-line statement")
	}
	if s.lineHasCode {
		s.emit(lexer.KindNewline, m)
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(lexer.KindDedent, m)
	}
	s.emit(lexer.KindEndMarker, m)
	return s.toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}

func isStringPrefix(p string) bool {
	switch strings.ToLower(p) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}
