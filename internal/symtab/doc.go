// Package symtab holds the fixed word/symbol table used by the cbt codec.
//
// Every reserved word or structural marker (newline, a four-space indent
// run, ':') maps to a single codepoint from the reserved range
// U+1286..U+1323. The mapping is a bijection and is part of the corpus wire
// format: a corpus can only be decoded with the table it was built with,
// which is why every table carries a version and a SHA-256 fingerprint.
//
// Example usage:
//
//	tab := symtab.Default()
//
//	sym, ok := tab.Symbol("while") // '\u1291', true
//	word, ok := tab.Word(sym)      // "while", true
//
//	text := tab.Replace(stream) // decode every symbol in a stream
package symtab
