package lexer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry maps language names, aliases and file extensions to lexers.
// A Registry is not safe for concurrent registration; populate it before
// sharing it.
type Registry struct {
	byName map[string]Lexer
	byExt  map[string]Lexer
	names  []string
}

// NewRegistry creates a registry holding the given lexers.
func NewRegistry(lexers ...Lexer) *Registry {
	r := &Registry{
		byName: make(map[string]Lexer),
		byExt:  make(map[string]Lexer),
	}
	for _, l := range lexers {
		r.Register(l)
	}
	return r
}

// Register adds a lexer under its language name, the given aliases and its
// extensions. Later registrations win.
func (r *Registry) Register(l Lexer, aliases ...string) {
	name := strings.ToLower(l.Language())
	if _, ok := r.byName[name]; !ok {
		r.names = append(r.names, name)
		sort.Strings(r.names)
	}
	r.byName[name] = l
	for _, a := range aliases {
		r.byName[strings.ToLower(a)] = l
	}
	for _, ext := range l.Extensions() {
		r.byExt[strings.ToLower(ext)] = l
		r.byName[strings.TrimPrefix(strings.ToLower(ext), ".")] = l
	}
}

// ForLanguage returns the lexer registered under name (case-insensitive).
func (r *Registry) ForLanguage(name string) (Lexer, error) {
	l, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no lexer for language %q (have %s)", name, strings.Join(r.names, ", "))
	}
	return l, nil
}

// ForPath picks a lexer from the file extension of path.
func (r *Registry) ForPath(path string) (Lexer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("no lexer for extension %q of %s", ext, path)
	}
	return l, nil
}

// Languages returns the canonical names of registered lexers, sorted.
func (r *Registry) Languages() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
