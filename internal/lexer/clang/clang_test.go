package clang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbt-ml/cbt/internal/lexer"
)

func TestTokenize_Program(t *testing.T) {
	src := "#include <stdio.h>\n" +
		"int main(void) { // entry\n" +
		"    /* block */ return 0x1F;\n" +
		"}\n"

	toks, err := New().Tokenize(src)
	require.NoError(t, err)

	var texts []string
	var comments []string
	for _, tk := range toks {
		assert.Equal(t, tk.Text, src[tk.Offset:tk.End()], "token %v", tk)
		if tk.Kind == lexer.KindComment {
			comments = append(comments, tk.Text)
			continue
		}
		texts = append(texts, tk.Text)
	}

	assert.Equal(t, []string{"// entry", "/* block */"}, comments)
	assert.Equal(t, []string{
		"#", "include", "<", "stdio", ".", "h", ">", "\n",
		"int", "main", "(", "void", ")", "{", "\n",
		"return", "0x1F", ";", "\n",
		"}", "\n",
		"",
	}, texts)

	assert.Equal(t, lexer.KindEndMarker, toks[len(toks)-1].Kind)
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind lexer.Kind
	}{
		{name: "ident", src: "while", kind: lexer.KindName},
		{name: "int", src: "42", kind: lexer.KindNumber},
		{name: "float", src: "3.25", kind: lexer.KindNumber},
		{name: "char", src: `'\n'`, kind: lexer.KindString},
		{name: "string", src: `"a\"b"`, kind: lexer.KindString},
		{name: "nul char", src: `'\0'`, kind: lexer.KindString},
		{name: "nul in string", src: `"abc\0"`, kind: lexer.KindString},
		{name: "question escape", src: `'\?'`, kind: lexer.KindString},
		{name: "short hex escape", src: `'\x1'`, kind: lexer.KindString},
		{name: "escaped quote", src: `'\''`, kind: lexer.KindString},
		{name: "multi char constant", src: `'ab'`, kind: lexer.KindString},
		{name: "comment markers in string", src: `"/* not // a comment"`, kind: lexer.KindString},
		{name: "line splice", src: "\"ab\\\ncd\"", kind: lexer.KindString},
		{name: "op", src: "+", kind: lexer.KindOp},
		{name: "newline", src: "\n", kind: lexer.KindNewline},
		{name: "at sign", src: "@", kind: lexer.KindError},
		{name: "backtick", src: "`", kind: lexer.KindError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := New().Tokenize(tt.src)
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.kind, toks[0].Kind)
			assert.Equal(t, tt.src, toks[0].Text)
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	src := "char c = '\\0';\nchar *s = \"abc\\0\";\n"

	toks, err := New().Tokenize(src)
	require.NoError(t, err)

	var strs []string
	for _, tk := range toks {
		assert.Equal(t, tk.Text, src[tk.Offset:tk.End()], "token %v", tk)
		if tk.Kind == lexer.KindString {
			strs = append(strs, tk.Text)
		}
	}
	assert.Equal(t, []string{`'\0'`, `"abc\0"`}, strs)
	assert.Equal(t, lexer.KindOp, toks[len(toks)-3].Kind)
	assert.Equal(t, ";", toks[len(toks)-3].Text)
}

func TestTokenize_ApostropheInDirective(t *testing.T) {
	toks, err := New().Tokenize("#error don't\n")
	require.NoError(t, err)

	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.Text)
	}
	assert.Equal(t, []string{"#", "error", "don", "'", "t", "\n", ""}, texts)
	assert.Equal(t, lexer.KindOp, toks[3].Kind)
}

func TestTokenize_CRLF(t *testing.T) {
	toks, err := New().Tokenize("a;\r\nb;\r\n")
	require.NoError(t, err)

	var newlines int
	for _, tk := range toks {
		if tk.Kind == lexer.KindNewline {
			newlines++
			assert.Equal(t, "\n", tk.Text)
		}
	}
	assert.Equal(t, 2, newlines)
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := New().Tokenize("x;\n  y;\n")
	require.NoError(t, err)

	var y lexer.Token
	for _, tk := range toks {
		if tk.Text == "y" {
			y = tk
		}
	}
	assert.Equal(t, 2, y.Line)
	assert.Equal(t, 2, y.Col)
	assert.Equal(t, 5, y.Offset)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated comment", src: "int x; /* never closed"},
		{name: "unterminated string", src: "char *s = \"abc\n"},
		{name: "string at end of input", src: "char *s = \"abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := New().Tokenize(tt.src)
			require.Error(t, err)
			assert.Nil(t, toks)
			assert.ErrorIs(t, err, lexer.ErrLex)

			var lexErr *lexer.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, "c", lexErr.Language)
			assert.NotEmpty(t, lexErr.Msg)
		})
	}
}
