package lexer

// Kind is the syntactic class of a token.
type Kind uint8

// Token kinds shared by every language. The set mirrors Python's tokenize
// module since that is the richest lexer the codec has to accommodate.
const (
	KindName      Kind = iota // identifiers and keywords
	KindNumber                // numeric literals
	KindString                // string and character literals
	KindOp                    // operators and punctuation
	KindNewline               // end of a logical line
	KindNL                    // newline that does not end a logical line
	KindComment               // comments, dropped by the encoder
	KindIndent                // indentation increase, no text of its own
	KindDedent                // indentation decrease, empty text
	KindEndMarker             // end of input, empty text
	KindError                 // character the lexer does not recognise
)

var kindNames = [...]string{
	KindName:      "NAME",
	KindNumber:    "NUMBER",
	KindString:    "STRING",
	KindOp:        "OP",
	KindNewline:   "NEWLINE",
	KindNL:        "NL",
	KindComment:   "COMMENT",
	KindIndent:    "INDENT",
	KindDedent:    "DEDENT",
	KindEndMarker: "ENDMARKER",
	KindError:     "ERRORTOKEN",
}

// String returns the tokenize-style name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsStructural reports whether tokens of this kind are lexer bookkeeping
// without an independent span in the source text.
func (k Kind) IsStructural() bool {
	return k == KindIndent || k == KindDedent || k == KindEndMarker
}

// HasLiteralFallback reports whether a token of this kind may be copied to
// the output verbatim when its text is not a reserved word.
func (k Kind) HasLiteralFallback() bool {
	return k <= KindNL
}

// Token is a lexical unit pointing back into the source.
type Token struct {
	Kind   Kind
	Text   string // exact source text
	Offset int    // byte offset of Text in the source
	Line   int    // 1-based
	Col    int    // 0-based, in runes
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}
