package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/cbt-ml/cbt/internal/codec"
	"github.com/cbt-ml/cbt/internal/symtab"
)

// Checksum returns the hex SHA-256 of a corpus.
func Checksum(corpus string) string {
	sum := sha256.Sum256([]byte(corpus))
	return hex.EncodeToString(sum[:])
}

// Write stores a build result at path and its manifest next to it. A .zst
// path is zstd-compressed.
func Write(path string, res *Result, table *symtab.Table) error {
	compressed := strings.HasSuffix(path, CompressedExt)
	if err := writeCorpus(path, res.Corpus, compressed); err != nil {
		return err
	}
	return writeManifest(ManifestPath(path), newManifest(res, table, Checksum(res.Corpus), compressed))
}

func writeCorpus(path, corpus string, compressed bool) (err error) {
	//nolint:gosec // G304: output path comes from the user.
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create corpus: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close corpus: %w", cerr)
		}
	}()

	var w io.Writer = f
	var enc *zstd.Encoder
	if compressed {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = enc
	}
	if _, err := io.WriteString(w, corpus); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush zstd stream: %w", err)
		}
	}
	return nil
}

// Read loads a corpus written by Write. When a manifest is present the
// checksum and table are verified against it; a corpus without one yields
// a nil manifest. A non-empty corpus must end with the EOF symbol.
func Read(path string, table *symtab.Table) (string, *Manifest, error) {
	corpus, err := readCorpus(path, strings.HasSuffix(path, CompressedExt))
	if err != nil {
		return "", nil, err
	}

	m, err := ReadManifest(ManifestPath(path))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m = nil
	case err != nil:
		return "", nil, err
	default:
		if err := table.Verify(m.Table); err != nil {
			return "", nil, fmt.Errorf("%s: %w", path, err)
		}
		if sum := Checksum(corpus); sum != m.Checksum {
			return "", nil, fmt.Errorf("%s: %w (want %s, got %s)", path, ErrChecksumMismatch, m.Checksum, sum)
		}
	}

	if corpus != "" && !codec.NewSplitter(table).Terminated(corpus) {
		return "", nil, fmt.Errorf("%s: %w", path, ErrUnterminated)
	}
	return corpus, m, nil
}

func readCorpus(path string, compressed bool) (string, error) {
	//nolint:gosec // G304: corpus path comes from the user.
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read corpus: %w", err)
	}
	return string(data), nil
}
