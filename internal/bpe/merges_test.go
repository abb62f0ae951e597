package bpe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleMerges() *Merges {
	return NewMerges("example", []string{"i f", "r e", "re t", "ret u", "retu r", "retur n", "broken"})
}

func TestPretokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "words and spaces", text: "if  x_1", want: []string{"if", "  ", "x_1"}},
		{name: "punctuation", text: "f(x):", want: []string{"f", "(", "x", ")", ":"}},
		{name: "newlines", text: "a\n\nb", want: []string{"a", "\n", "\n", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pretokenize(tt.text))
		})
	}
}

func TestMerges_Count(t *testing.T) {
	m := exampleMerges()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "merged keyword", text: "if", want: 1},
		{name: "chained merges", text: "return", want: 1},
		{name: "unmerged", text: "xyz", want: 3},
		{name: "line", text: "if x: return y\n", want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Count(tt.text))
		})
	}
	assert.Equal(t, "example", m.Name())
	assert.Len(t, m.ranks, 6)
}

func TestLoadHuggingFace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tiny-model")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "tokenizer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model": {"type": "BPE", "merges": ["i f"]}}`), 0o600))

	for _, p := range []string{dir, path} {
		m, err := LoadHuggingFace(p)
		require.NoError(t, err)
		assert.Equal(t, "tiny-model", m.Name())
		assert.Equal(t, 1, m.Count("if"))
	}

	c, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "tiny-model", c.Name())

	require.NoError(t, os.WriteFile(path, []byte(`{"model": {"type": "WordPiece"}}`), 0o600))
	_, err = LoadHuggingFace(path)
	assert.ErrorIs(t, err, ErrNotBPE)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = LoadHuggingFace(path)
	assert.Error(t, err)
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open("no-such-tokenizer-xyz")
	assert.Error(t, err)
}
