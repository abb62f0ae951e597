package codec

import (
	"iter"
	"strings"

	"github.com/cbt-ml/cbt/internal/symtab"
)

// Splitter cuts a corpus back into per-file streams.
type Splitter struct {
	eof string
}

// NewSplitter creates a splitter using the EOF symbol of table.
func NewSplitter(table *symtab.Table) *Splitter {
	return &Splitter{eof: string(table.EOF())}
}

// Segments yields the per-file streams of corpus, EOF removed. The empty
// segment after a final EOF is not yielded; empty segments in the middle
// (empty source files) are. The sequence can be ranged over repeatedly.
func (s *Splitter) Segments(corpus string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := corpus
		for rest != "" {
			i := strings.Index(rest, s.eof)
			if i < 0 {
				yield(rest)
				return
			}
			if !yield(rest[:i]) {
				return
			}
			rest = rest[i+len(s.eof):]
		}
	}
}

// Split returns all segments of corpus.
func (s *Splitter) Split(corpus string) []string {
	var out []string
	for seg := range s.Segments(corpus) {
		out = append(out, seg)
	}
	return out
}

// Terminated reports whether corpus is empty or ends with EOF, i.e. whether
// its last segment is complete.
func (s *Splitter) Terminated(corpus string) bool {
	return corpus == "" || strings.HasSuffix(corpus, s.eof)
}
