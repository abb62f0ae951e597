package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbt-ml/cbt/internal/symtab"
)

func buildMixed(t *testing.T) *Result {
	t.Helper()
	res, err := newBuilder(SkipFailed).Build(context.Background(), mixedSources())
	require.NoError(t, err)
	return res
}

func TestWriteRead(t *testing.T) {
	for _, name := range []string{"corpus.txt", "corpus.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			res := buildMixed(t)
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Write(path, res, symtab.Default()))

			corpus, m, err := Read(path, symtab.Default())
			require.NoError(t, err)
			assert.Equal(t, res.Corpus, corpus)

			require.NotNil(t, m)
			assert.Equal(t, FormatVersion, m.FormatVersion)
			assert.Equal(t, filepath.Ext(name) == CompressedExt, m.Compressed)
			assert.Equal(t, Checksum(res.Corpus), m.Checksum)
			assert.Equal(t, []string{"c", "python"}, m.Languages)
			assert.Equal(t, res.Files, m.Files)
			assert.Len(t, m.Failures, len(res.Failures))
			assert.Equal(t, symtab.Default().Descriptor(), m.Table)
			assert.False(t, m.CreatedAt.IsZero())
		})
	}
}

func TestWrite_Compresses(t *testing.T) {
	res := &Result{}
	for i := 0; i < 200; i++ {
		res.Corpus += "x = 1\u1288" + eof
	}
	dir := t.TempDir()
	plain := filepath.Join(dir, "c.txt")
	packed := filepath.Join(dir, "c.txt.zst")
	require.NoError(t, Write(plain, res, symtab.Default()))
	require.NoError(t, Write(packed, res, symtab.Default()))

	pi, err := os.Stat(plain)
	require.NoError(t, err)
	zi, err := os.Stat(packed)
	require.NoError(t, err)
	assert.Less(t, zi.Size(), pi.Size())
}

func TestRead_ChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, Write(path, buildMixed(t), symtab.Default()))
	require.NoError(t, os.WriteFile(path, []byte("y = 2\u1288"+eof), 0o600))

	_, _, err := Read(path, symtab.Default())
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestRead_TableMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, Write(path, buildMixed(t), symtab.Default()))

	other, err := symtab.New(2, map[string]rune{symtab.IndentWord: '\u1289', "if": '\u128A'}, symtab.EOF)
	require.NoError(t, err)

	_, _, err = Read(path, other)
	assert.ErrorIs(t, err, symtab.ErrTableMismatch)
}

func TestRead_WithoutManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.txt")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\u1288"+eof), 0o600))

	corpus, m, err := Read(path, symtab.Default())
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, "x = 1\u1288"+eof, corpus)
}

func TestRead_Unterminated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.txt")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\u1288"+eof+"y"), 0o600))

	_, _, err := Read(path, symtab.Default())
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Read(filepath.Join(dir, "missing.txt"), symtab.Default())
	assert.Error(t, err)

	path := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(path, []byte(eof), 0o600))
	require.NoError(t, os.WriteFile(ManifestPath(path), []byte(`{"format_version": 9}`), 0o600))
	_, _, err = Read(path, symtab.Default())
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	require.NoError(t, os.WriteFile(ManifestPath(path), []byte(`{`), 0o600))
	_, _, err = Read(path, symtab.Default())
	assert.Error(t, err)
}

func TestWrite_ManifestMarksReportedFailures(t *testing.T) {
	res, err := newBuilder(SkipUnmapped).Build(context.Background(), mixedSources())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, Write(path, res, symtab.Default()))
	_, m, err := Read(path, symtab.Default())
	require.NoError(t, err)

	reported := 0
	for _, f := range m.Failures {
		if f.Reported {
			reported++
		}
		assert.Equal(t, f.Class != ClassUnmapped, f.Reported, f.Path)
	}
	assert.Equal(t, 3, reported)
}
