package symtab

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// Reserved codepoint range. Every rune in [RangeLo, RangeHi] is treated as a
// symbol, assigned or not, and must never appear in source text.
const (
	RangeLo rune = '\u1286'
	RangeHi rune = '\u1323'
)

// Well-known symbols of the version 1 table.
const (
	EOF       rune = '\u1286'
	Newline   rune = '\u1288'
	IndentRun rune = '\u1289'
	Colon     rune = '\u1292'
)

// IndentWord is the literal text an INDENT-RUN symbol stands for.
const IndentWord = "    "

// Version1 is the table shipped with the first corpora. Changing any
// assignment here makes those corpora undecodable.
const Version1 = 1

var version1Entries = map[string]rune{
	"if":       '\u1287',
	"\n":       Newline,
	IndentWord: IndentRun,
	"for":      '\u1290',
	"while":    '\u1291',
	":":        Colon,
	"False":    '\u1294',
	"None":     '\u1295',
	"True":     '\u1296',
	"and":      '\u1297',
	"as":       '\u1298',
	"assert":   '\u1299',
	"break":    '\u1300',
	"class":    '\u1301',
	"continue": '\u1302',
	"def":      '\u1303',
	"del":      '\u1304',
	"elif":     '\u1305',
	"else":     '\u1306',
	"except":   '\u1307',
	"finally":  '\u1308',
	"from":     '\u1309',
	"global":   '\u1310',
	"import":   '\u1311',
	"in":       '\u1312',
	"is":       '\u1313',
	"lambda":   '\u1314',
	"nonlocal": '\u1315',
	"not":      '\u1316',
	"or":       '\u1317',
	"pass":     '\u1318',
	"raise":    '\u1319',
	"return":   '\u1320',
	"try":      '\u1321',
	"with":     '\u1322',
	"yield":    '\u1323',
}

// defaultTable is built once at package init and never mutated.
var defaultTable = mustNew(Version1, version1Entries, EOF)

// Default returns the process-wide version 1 table.
func Default() *Table {
	return defaultTable
}

// Entry is a single word/symbol assignment.
type Entry struct {
	Word   string
	Symbol rune
}

// Table is an immutable bijection between words and reserved symbols.
//
// A Table is safe for concurrent use; none of its methods mutate it.
type Table struct {
	version  int
	eof      rune
	toSymbol map[string]rune
	toWord   map[rune]string
	entries  []Entry // sorted by symbol
	replacer *strings.Replacer
	sum      [32]byte
}

// New builds a table from a word->symbol assignment.
//
// The assignment must be bijective, every symbol (EOF included) must lie in
// the reserved range, EOF must not be assigned to a word, and IndentWord must
// be present since the encoder emits it for indentation runs.
func New(version int, entries map[string]rune, eof rune) (*Table, error) {
	if !inRange(eof) {
		return nil, fmt.Errorf("EOF %U: %w", eof, ErrSymbolOutsideRange)
	}

	t := &Table{
		version:  version,
		eof:      eof,
		toSymbol: make(map[string]rune, len(entries)),
		toWord:   make(map[rune]string, len(entries)),
		entries:  make([]Entry, 0, len(entries)),
	}

	for word, sym := range entries {
		switch {
		case word == "":
			return nil, ErrEmptyWord
		case sym == eof:
			return nil, fmt.Errorf("word %q: %w", word, ErrEOFCollision)
		case !inRange(sym):
			return nil, fmt.Errorf("word %q -> %U: %w", word, sym, ErrSymbolOutsideRange)
		}
		if prev, ok := t.toWord[sym]; ok {
			return nil, fmt.Errorf("%U assigned to %q and %q: %w", sym, prev, word, ErrDuplicateSymbol)
		}
		t.toSymbol[word] = sym
		t.toWord[sym] = word
		t.entries = append(t.entries, Entry{Word: word, Symbol: sym})
	}
	if _, ok := t.toSymbol[IndentWord]; !ok {
		return nil, ErrMissingIndentRun
	}

	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].Symbol < t.entries[j].Symbol
	})

	pairs := make([]string, 0, 2*len(t.entries))
	for _, e := range t.entries {
		pairs = append(pairs, string(e.Symbol), e.Word)
	}
	t.replacer = strings.NewReplacer(pairs...)
	t.sum = fingerprint(t.entries, eof)

	return t, nil
}

func mustNew(version int, entries map[string]rune, eof rune) *Table {
	t, err := New(version, entries, eof)
	if err != nil {
		panic(fmt.Sprintf("symtab: invalid built-in table: %v", err))
	}
	return t
}

func inRange(r rune) bool {
	return r >= RangeLo && r <= RangeHi
}

// fingerprint hashes (symbol, word) pairs in symbol order followed by EOF.
// The version is not hashed.
func fingerprint(entries []Entry, eof rune) [32]byte {
	h := sha256.New()
	var buf [4]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint32(buf[:], uint32(e.Symbol))
		h.Write(buf[:])
		binary.LittleEndian.PutUint32(buf[:], uint32(len(e.Word)))
		h.Write(buf[:])
		h.Write([]byte(e.Word))
	}
	binary.LittleEndian.PutUint32(buf[:], uint32(eof))
	h.Write(buf[:])

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// Symbol returns the symbol for word, if the word is reserved.
func (t *Table) Symbol(word string) (rune, bool) {
	sym, ok := t.toSymbol[word]
	return sym, ok
}

// Word returns the word a symbol stands for. EOF has no word.
func (t *Table) Word(sym rune) (string, bool) {
	word, ok := t.toWord[sym]
	return word, ok
}

// EOF returns the stream terminator symbol.
func (t *Table) EOF() rune {
	return t.eof
}

// IndentRun returns the symbol standing for four spaces.
func (t *Table) IndentRun() rune {
	return t.toSymbol[IndentWord]
}

// IsReserved reports whether r lies in the reserved range.
func (t *Table) IsReserved(r rune) bool {
	return inRange(r)
}

// Len returns the number of word entries (EOF excluded).
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the assignments sorted by symbol.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Version returns the table version.
func (t *Table) Version() int {
	return t.version
}

// Fingerprint returns the SHA-256 of the assignment.
func (t *Table) Fingerprint() [32]byte {
	return t.sum
}

// Replace substitutes every table symbol in s with its word in one pass.
// EOF and unassigned reserved runes are left untouched.
func (t *Table) Replace(s string) string {
	return t.replacer.Replace(s)
}
