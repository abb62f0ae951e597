// Package langs wires the built-in lexers into a registry.
package langs

import (
	"github.com/cbt-ml/cbt/internal/lexer"
	"github.com/cbt-ml/cbt/internal/lexer/clang"
	"github.com/cbt-ml/cbt/internal/lexer/python"
)

// Default returns a fresh registry with the Python and C lexers.
func Default() *lexer.Registry {
	r := lexer.NewRegistry()
	r.Register(python.New(), "py3", "python3")
	r.Register(clang.New())
	return r
}
