package corpus

import (
	"strings"

	"github.com/cbt-ml/cbt/internal/bpe"
	"github.com/cbt-ml/cbt/internal/codec"
	"github.com/cbt-ml/cbt/internal/symtab"
)

// Stats summarizes a corpus.
type Stats struct {
	Files        int            `json:"files"`
	Failed       int            `json:"failed"`
	SourceRunes  int            `json:"source_runes"`  // decoded text, EOF excluded
	EncodedRunes int            `json:"encoded_runes"` // EOF included
	Symbols      map[string]int `json:"symbols"`       // table word -> occurrences
	IndentRuns   int            `json:"indent_runs"`

	// Set only when measured with a bpe.Counter.
	BPEEncoding string `json:"bpe_encoding,omitempty"`
	BPESource   int    `json:"bpe_source,omitempty"`
	BPEEncoded  int    `json:"bpe_encoded,omitempty"`
}

// Ratio returns encoded runes per source rune, or 0 for an empty corpus.
func (s Stats) Ratio() float64 {
	if s.SourceRunes == 0 {
		return 0
	}
	return float64(s.EncodedRunes) / float64(s.SourceRunes)
}

// Measure computes statistics of an encoded corpus. A nil counter skips
// the BPE comparison.
func Measure(corpus string, table *symtab.Table, counter bpe.Counter) Stats {
	s := Stats{Symbols: make(map[string]int)}
	eof := table.EOF()
	for _, r := range corpus {
		s.EncodedRunes++
		switch {
		case r == eof:
			s.Files++
		case r == table.IndentRun():
			s.IndentRuns++
			s.Symbols[symtab.IndentWord]++
		default:
			if w, ok := table.Word(r); ok {
				s.Symbols[w]++
			}
		}
	}

	source := codec.NewDecoder(table).Decode(strings.ReplaceAll(corpus, string(eof), ""))
	s.SourceRunes = len([]rune(source))

	if counter != nil {
		s.BPEEncoding = counter.Name()
		s.BPESource = counter.Count(source)
		s.BPEEncoded = counter.Count(corpus)
	}
	return s
}
