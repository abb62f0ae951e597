// Package codec converts source text to and from symbol streams.
//
// The Encoder walks the lexer's tokens over the raw text, copying the gaps
// between tokens verbatim (four-space runs folded into one INDENT-RUN
// symbol), dropping comments and replacing reserved words with their table
// symbols. Each stream ends with exactly one EOF symbol. The Decoder undoes
// the substitution and the Splitter recovers file boundaries from EOF
// symbols in a concatenated corpus.
//
// Example usage:
//
//	enc := codec.NewEncoder(symtab.Default(), python.New())
//	stream, err := enc.Encode("if True:\n    pass\n")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dec := codec.NewDecoder(symtab.Default())
//	text := dec.DecodeFile(stream) // "if True:\n    pass\n"
//
//	for seg := range codec.NewSplitter(symtab.Default()).Segments(corpus) {
//	    fmt.Println(dec.Decode(seg))
//	}
package codec
