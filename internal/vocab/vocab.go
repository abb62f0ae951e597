// Package vocab builds the character-level vocabulary a sequence model is
// trained on: every distinct rune of a corpus, sorted by codepoint, mapped
// to a dense int32 id.
package vocab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/cbt-ml/cbt/internal/symtab"
)

// Vocabulary lookup errors.
var (
	ErrUnknownRune = errors.New("rune not in vocabulary")
	ErrUnknownID   = errors.New("id not in vocabulary")
	ErrBadIndex    = errors.New("malformed vocabulary index")
)

// Vocabulary is an immutable rune <-> id mapping.
type Vocabulary struct {
	runes []rune         // id -> rune, sorted
	ids   map[rune]int32 // rune -> id
	table *symtab.Table
}

// Build collects the distinct runes of corpus.
func Build(corpus string, table *symtab.Table) *Vocabulary {
	set := make(map[rune]struct{})
	for _, r := range corpus {
		set[r] = struct{}{}
	}
	runes := make([]rune, 0, len(set))
	for r := range set {
		runes = append(runes, r)
	}
	return newVocabulary(runes, table)
}

func newVocabulary(runes []rune, table *symtab.Table) *Vocabulary {
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	ids := make(map[rune]int32, len(runes))
	for i, r := range runes {
		ids[r] = int32(i) //nolint:gosec // G115: at most 0x110000 distinct runes.
	}
	return &Vocabulary{runes: runes, ids: ids, table: table}
}

// Encode converts text to ids.
func (v *Vocabulary) Encode(text string) ([]int32, error) {
	out := make([]int32, 0, utf8.RuneCountInString(text))
	for i, r := range text {
		id, ok := v.ids[r]
		if !ok {
			return nil, fmt.Errorf("%U at byte %d: %w", r, i, ErrUnknownRune)
		}
		out = append(out, id)
	}
	return out, nil
}

// Decode converts ids back to text.
func (v *Vocabulary) Decode(ids []int32) (string, error) {
	buf := make([]rune, len(ids))
	for i, id := range ids {
		if id < 0 || int(id) >= len(v.runes) {
			return "", fmt.Errorf("id %d at position %d: %w", id, i, ErrUnknownID)
		}
		buf[i] = v.runes[id]
	}
	return string(buf), nil
}

// VocabSize returns the number of distinct runes.
func (v *Vocabulary) VocabSize() int {
	return len(v.runes)
}

// EosToken returns the id of the EOF symbol, or -1 if the corpus had none.
func (v *Vocabulary) EosToken() int32 {
	if id, ok := v.ids[v.table.EOF()]; ok {
		return id
	}
	return -1
}

// IsSpecialToken reports whether id stands for a reserved symbol.
func (v *Vocabulary) IsSpecialToken(id int32) bool {
	if id < 0 || int(id) >= len(v.runes) {
		return false
	}
	return v.table.IsReserved(v.runes[id])
}

// Runes returns the vocabulary in id order.
func (v *Vocabulary) Runes() []rune {
	out := make([]rune, len(v.runes))
	copy(out, v.runes)
	return out
}

// index is the on-disk word_to_index.json layout.
type index struct {
	IndexToToken map[string]int32 `json:"index_to_token"` // rune -> id
	VocabSize    int              `json:"vocab_size"`
}

// WriteIndex writes the vocabulary as JSON.
func (v *Vocabulary) WriteIndex(w io.Writer) error {
	idx := index{
		IndexToToken: make(map[string]int32, len(v.runes)),
		VocabSize:    len(v.runes),
	}
	for i, r := range v.runes {
		idx.IndexToToken[string(r)] = int32(i) //nolint:gosec // G115: bounded by rune count.
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("failed to write vocabulary index: %w", err)
	}
	return nil
}

// ReadIndex loads a vocabulary written by WriteIndex.
func ReadIndex(r io.Reader, table *symtab.Table) (*Vocabulary, error) {
	var idx index
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary index: %w", err)
	}
	if idx.VocabSize != len(idx.IndexToToken) {
		return nil, fmt.Errorf("vocab_size %d but %d entries: %w", idx.VocabSize, len(idx.IndexToToken), ErrBadIndex)
	}

	runes := make([]rune, len(idx.IndexToToken))
	seen := make([]bool, len(runes))
	for tok, id := range idx.IndexToToken {
		r, size := utf8.DecodeRuneInString(tok)
		if size != len(tok) || string(r) != tok {
			return nil, fmt.Errorf("token %q is not a single rune: %w", tok, ErrBadIndex)
		}
		if id < 0 || int(id) >= len(runes) || seen[id] {
			return nil, fmt.Errorf("token %q has invalid id %d: %w", tok, id, ErrBadIndex)
		}
		runes[id] = r
		seen[id] = true
	}

	v := newVocabulary(append([]rune(nil), runes...), table)
	for i, r := range runes {
		if v.runes[i] != r {
			return nil, fmt.Errorf("ids are not in codepoint order: %w", ErrBadIndex)
		}
	}
	return v, nil
}
