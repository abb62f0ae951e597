package symtab

import (
	"encoding/hex"
	"fmt"
)

// Descriptor identifies a table inside a corpus manifest.
type Descriptor struct {
	Version     int               `json:"version"`
	Fingerprint string            `json:"fingerprint"` // hex SHA-256
	EOF         string            `json:"eof"`         // U+XXXX
	Entries     map[string]string `json:"entries"`     // U+XXXX -> word
}

// Descriptor describes t for persistence alongside a corpus.
func (t *Table) Descriptor() Descriptor {
	entries := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		entries[fmt.Sprintf("%U", e.Symbol)] = e.Word
	}
	return Descriptor{
		Version:     t.version,
		Fingerprint: hex.EncodeToString(t.sum[:]),
		EOF:         fmt.Sprintf("%U", t.eof),
		Entries:     entries,
	}
}

// Verify reports whether a corpus described by d can be decoded with t.
// Only the fingerprint is compared; a version bump alone with an identical
// assignment is accepted.
func (t *Table) Verify(d Descriptor) error {
	want := hex.EncodeToString(t.sum[:])
	if d.Fingerprint != want {
		return fmt.Errorf("corpus table v%d (%.12s) vs loaded table v%d (%.12s): %w",
			d.Version, d.Fingerprint, t.version, want, ErrTableMismatch)
	}
	return nil
}
