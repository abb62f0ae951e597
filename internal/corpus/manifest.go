package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cbt-ml/cbt/internal/symtab"
)

// Manifest format constants.
const (
	FormatVersion  = 1
	ManifestSuffix = ".manifest.json"
	CompressedExt  = ".zst"
)

// Manifest is the JSON sidecar written next to a corpus.
type Manifest struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Languages     []string          `json:"languages"`
	Table         symtab.Descriptor `json:"table"`
	Files         []File            `json:"files"`
	Failures      []FailureMeta     `json:"failures"`
	Checksum      string            `json:"checksum"` // hex SHA-256 of the uncompressed corpus
	Compressed    bool              `json:"compressed"`
}

// FailureMeta is the serialized form of a Failure.
type FailureMeta struct {
	Path     string `json:"path"`
	Class    Class  `json:"class"`
	Error    string `json:"error"`
	Reported bool   `json:"reported,omitempty"`
}

// ManifestPath returns the sidecar path for a corpus.
func ManifestPath(corpusPath string) string {
	return corpusPath + ManifestSuffix
}

func newManifest(res *Result, table *symtab.Table, checksum string, compressed bool) *Manifest {
	m := &Manifest{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Languages:     res.Languages(),
		Table:         table.Descriptor(),
		Files:         res.Files,
		Failures:      make([]FailureMeta, 0, len(res.Failures)),
		Checksum:      checksum,
		Compressed:    compressed,
	}
	if m.Files == nil {
		m.Files = []File{}
	}
	if m.Languages == nil {
		m.Languages = []string{}
	}
	for _, f := range res.Failures {
		m.Failures = append(m.Failures, FailureMeta{Path: f.Path, Class: f.Class, Error: f.Err.Error(), Reported: f.Reported})
	}
	return m
}

func writeManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	//nolint:gosec // G304: manifest path is derived from the user's corpus path.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.FormatVersion)
	}
	return &m, nil
}
