package codec

import (
	"strings"

	"github.com/cbt-ml/cbt/internal/symtab"
)

// Decoder maps encoded streams back to source text.
type Decoder struct {
	table *symtab.Table
}

// NewDecoder creates a decoder over table.
func NewDecoder(table *symtab.Table) *Decoder {
	return &Decoder{table: table}
}

// Decode replaces every table symbol in stream with its word. EOF symbols
// are left in place; stripping them is the Splitter's job.
func (d *Decoder) Decode(stream string) string {
	return d.table.Replace(stream)
}

// DecodeFile decodes the stream of a single file, dropping its terminal EOF.
func (d *Decoder) DecodeFile(stream string) string {
	return d.table.Replace(strings.TrimSuffix(stream, string(d.table.EOF())))
}
