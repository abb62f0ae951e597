package bpe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrNotBPE is returned for tokenizer.json files whose model is not BPE.
var ErrNotBPE = errors.New("tokenizer model is not BPE")

type pair struct {
	first, second string
}

// Merges is a rank-ordered BPE counter loaded from a HuggingFace
// tokenizer.json. Text is pre-split into runs of letters and digits, runs
// of spaces and single other runes; byte-level remapping is not applied.
type Merges struct {
	name  string
	ranks map[pair]int // merge -> priority, lower first
}

// NewMerges builds a counter from merge rules in "first second" form.
// Malformed rules are skipped.
func NewMerges(name string, rules []string) *Merges {
	m := &Merges{name: name, ranks: make(map[pair]int, len(rules))}
	for _, rule := range rules {
		parts := strings.Fields(rule)
		if len(parts) != 2 {
			continue
		}
		p := pair{parts[0], parts[1]}
		if _, ok := m.ranks[p]; !ok {
			m.ranks[p] = len(m.ranks)
		}
	}
	return m
}

// hfTokenizer is the subset of tokenizer.json read here.
type hfTokenizer struct {
	Model struct {
		Type   string   `json:"type"`
		Merges []string `json:"merges"`
	} `json:"model"`
}

// LoadHuggingFace loads the merges of a tokenizer.json file, or of the
// tokenizer.json inside a model directory.
func LoadHuggingFace(path string) (*Merges, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "tokenizer.json")
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the user.
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer.json: %w", err)
	}

	var cfg hfTokenizer
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json: %w", err)
	}
	if cfg.Model.Type != "" && cfg.Model.Type != "BPE" {
		return nil, fmt.Errorf("%s: %w (got %s)", path, ErrNotBPE, cfg.Model.Type)
	}
	return NewMerges(filepath.Base(filepath.Dir(path)), cfg.Model.Merges), nil
}

// Open returns a counter for a tiktoken encoding name, a tiktoken model
// name, or a HuggingFace tokenizer.json path or model directory.
func Open(nameOrPath string) (Counter, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		m, err := LoadHuggingFace(nameOrPath)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	if tok, err := NewTikToken(nameOrPath); err == nil {
		return tok, nil
	}
	if tok, err := NewTikTokenForModel(nameOrPath); err == nil {
		return tok, nil
	}
	return nil, fmt.Errorf("no tokenizer named %q", nameOrPath)
}

// Count returns the number of pieces text splits into after merging.
func (m *Merges) Count(text string) int {
	n := 0
	for _, word := range pretokenize(text) {
		n += len(m.merge(word))
	}
	return n
}

// Name returns the tokenizer name.
func (m *Merges) Name() string {
	return m.name
}

// merge applies the lowest-ranked merge until none applies.
func (m *Merges) merge(word string) []string {
	pieces := make([]string, 0, len(word))
	for _, r := range word {
		pieces = append(pieces, string(r))
	}

	for len(pieces) > 1 {
		best, bestRank := -1, len(m.ranks)
		for i := 0; i+1 < len(pieces); i++ {
			if rank, ok := m.ranks[pair{pieces[i], pieces[i+1]}]; ok && rank < bestRank {
				best, bestRank = i, rank
			}
		}
		if best < 0 {
			break
		}
		pieces[best] += pieces[best+1]
		pieces = append(pieces[:best+1], pieces[best+2:]...)
	}
	return pieces
}

type runeClass int

const (
	classWord runeClass = iota
	classSpace
	classOther
)

func classOf(r rune) runeClass {
	switch {
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return classWord
	case r == ' ':
		return classSpace
	default:
		return classOther
	}
}

// pretokenize splits text into merge units.
func pretokenize(text string) []string {
	var words []string
	start := -1
	var cur runeClass
	for i, r := range text {
		c := classOf(r)
		if start >= 0 && (c != cur || c == classOther) {
			words = append(words, text[start:i])
			start = -1
		}
		if start < 0 {
			start, cur = i, c
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}
