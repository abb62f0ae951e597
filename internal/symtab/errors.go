package symtab

import "errors"

// Table construction and verification errors.
var (
	ErrEmptyWord          = errors.New("empty word in symbol table")
	ErrDuplicateSymbol    = errors.New("symbol mapped to more than one word")
	ErrEOFCollision       = errors.New("EOF symbol also assigned to a word")
	ErrSymbolOutsideRange = errors.New("symbol outside the reserved range")
	ErrMissingIndentRun   = errors.New("table has no indent-run entry")
	ErrTableMismatch      = errors.New("symbol table does not match corpus manifest")
)
