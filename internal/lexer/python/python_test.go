package python

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbt-ml/cbt/internal/lexer"
)

type tok struct {
	kind lexer.Kind
	text string
}

func kinds(toks []lexer.Token) []tok {
	out := make([]tok, len(toks))
	for i, t := range toks {
		out[i] = tok{t.Kind, t.Text}
	}
	return out
}

func TestTokenize_Streams(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tok
	}{
		{
			name: "empty",
			src:  "",
			want: []tok{{lexer.KindEndMarker, ""}},
		},
		{
			name: "if block",
			src:  "if True:\n    pass\n",
			want: []tok{
				{lexer.KindName, "if"},
				{lexer.KindName, "True"},
				{lexer.KindOp, ":"},
				{lexer.KindNewline, "\n"},
				{lexer.KindIndent, "    "},
				{lexer.KindName, "pass"},
				{lexer.KindNewline, "\n"},
				{lexer.KindDedent, ""},
				{lexer.KindEndMarker, ""},
			},
		},
		{
			name: "trailing comment",
			src:  "x = 1  # note\n",
			want: []tok{
				{lexer.KindName, "x"},
				{lexer.KindOp, "="},
				{lexer.KindNumber, "1"},
				{lexer.KindComment, "# note"},
				{lexer.KindNewline, "\n"},
				{lexer.KindEndMarker, ""},
			},
		},
		{
			name: "comment only and blank lines are NL",
			src:  "# head\n\nx\n",
			want: []tok{
				{lexer.KindComment, "# head"},
				{lexer.KindNL, "\n"},
				{lexer.KindNL, "\n"},
				{lexer.KindName, "x"},
				{lexer.KindNewline, "\n"},
				{lexer.KindEndMarker, ""},
			},
		},
		{
			name: "newline inside brackets",
			src:  "f(a,\n  b)\n",
			want: []tok{
				{lexer.KindName, "f"},
				{lexer.KindOp, "("},
				{lexer.KindName, "a"},
				{lexer.KindOp, ","},
				{lexer.KindNL, "\n"},
				{lexer.KindName, "b"},
				{lexer.KindOp, ")"},
				{lexer.KindNewline, "\n"},
				{lexer.KindEndMarker, ""},
			},
		},
		{
			name: "no trailing newline",
			src:  "x",
			want: []tok{
				{lexer.KindName, "x"},
				{lexer.KindNewline, ""},
				{lexer.KindEndMarker, ""},
			},
		},
		{
			name: "operators longest match",
			src:  "a **= b // c -> d\n",
			want: []tok{
				{lexer.KindName, "a"},
				{lexer.KindOp, "**="},
				{lexer.KindName, "b"},
				{lexer.KindOp, "//"},
				{lexer.KindName, "c"},
				{lexer.KindOp, "->"},
				{lexer.KindName, "d"},
				{lexer.KindNewline, "\n"},
				{lexer.KindEndMarker, ""},
			},
		},
		{
			name: "unknown character",
			src:  "a $ b\n",
			want: []tok{
				{lexer.KindName, "a"},
				{lexer.KindError, "$"},
				{lexer.KindName, "b"},
				{lexer.KindNewline, "\n"},
				{lexer.KindEndMarker, ""},
			},
		},
		{
			name: "line continuation",
			src:  "x = 1 + \\\n    2\n",
			want: []tok{
				{lexer.KindName, "x"},
				{lexer.KindOp, "="},
				{lexer.KindNumber, "1"},
				{lexer.KindOp, "+"},
				{lexer.KindNumber, "2"},
				{lexer.KindNewline, "\n"},
				{lexer.KindEndMarker, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := New().Tokenize(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(toks))
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind lexer.Kind
		text string
	}{
		{name: "single quoted", src: `'a\'b'`, kind: lexer.KindString, text: `'a\'b'`},
		{name: "double quoted", src: `"x # not a comment"`, kind: lexer.KindString, text: `"x # not a comment"`},
		{name: "raw prefix", src: `r"\d+"`, kind: lexer.KindString, text: `r"\d+"`},
		{name: "fstring prefix", src: `Rb'..'`, kind: lexer.KindString, text: `Rb'..'`},
		{name: "triple quoted", src: "\"\"\"a\n'b'\n\"\"\"", kind: lexer.KindString, text: "\"\"\"a\n'b'\n\"\"\""},
		{name: "float exponent", src: "1.5e-3", kind: lexer.KindNumber, text: "1.5e-3"},
		{name: "hex", src: "0xFF_FF", kind: lexer.KindNumber, text: "0xFF_FF"},
		{name: "leading dot", src: ".5j", kind: lexer.KindNumber, text: ".5j"},
		{name: "unicode name", src: "café", kind: lexer.KindName, text: "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := New().Tokenize(tt.src)
			require.NoError(t, err)
			require.NotEmpty(t, toks)
			assert.Equal(t, tt.kind, toks[0].Kind)
			assert.Equal(t, tt.text, toks[0].Text)
		})
	}
}

func TestTokenize_NestedDedents(t *testing.T) {
	src := "def f():\n    if x:\n        y\n    z\nw\n"
	toks, err := New().Tokenize(src)
	require.NoError(t, err)

	var indents, dedents int
	for _, tk := range toks {
		switch tk.Kind {
		case lexer.KindIndent:
			indents++
		case lexer.KindDedent:
			dedents++
		}
	}
	assert.Equal(t, 2, indents)
	assert.Equal(t, 2, dedents)
}

func TestTokenize_Positions(t *testing.T) {
	src := "a = 'é'\n  \nb\n"
	toks, err := New().Tokenize(src)
	require.NoError(t, err)

	for _, tk := range toks {
		assert.Equal(t, tk.Text, src[tk.Offset:tk.End()], "token %v", tk)
	}

	b := toks[len(toks)-3]
	require.Equal(t, "b", b.Text)
	assert.Equal(t, 3, b.Line)
	assert.Equal(t, 0, b.Col)
}

func TestTokenize_TextsAppearInOrder(t *testing.T) {
	src := strings.Join([]string{
		"class A(object):",
		"    \"\"\"doc",
		"    string\"\"\"",
		"    def m(self, *a, **kw):  # trailing",
		"        return [x for x in a if x is not None]",
		"",
	}, "\n")

	toks, err := New().Tokenize(src)
	require.NoError(t, err)

	last := 0
	for _, tk := range toks {
		require.GreaterOrEqual(t, tk.Offset, last)
		last = tk.Offset
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{name: "unterminated string", src: "x = 'abc\n", msg: "unterminated string literal"},
		{name: "unterminated triple", src: "x = \"\"\"abc\n", msg: "unterminated triple-quoted string literal"},
		{name: "open bracket at eof", src: "f(1,\n", msg: "unexpected EOF in multi-line statement"},
		{name: "bad dedent", src: "if x:\n        a\n    b\n", msg: "unindent does not match any outer indentation level"},
		{name: "stray backslash", src: "x = \\ y\n", msg: "unexpected character after line continuation character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := New().Tokenize(tt.src)
			require.Error(t, err)
			assert.Nil(t, toks)
			assert.ErrorIs(t, err, lexer.ErrLex)

			var lexErr *lexer.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, "python", lexErr.Language)
			assert.Equal(t, tt.msg, lexErr.Msg)
		})
	}
}
