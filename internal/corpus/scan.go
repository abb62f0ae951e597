package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yargevad/filepathx"

	"github.com/cbt-ml/cbt/internal/lexer"
)

// Discover expands ** glob patterns under root and returns the matching
// regular files, de-duplicated and sorted.
func Discover(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range patterns {
		matches, err := filepathx.Glob(filepath.Join(root, p))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}
			if !info.Mode().IsRegular() {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// DefaultPatterns returns one **/*.ext pattern per extension of the named
// language, or of every registered language when language is empty.
func DefaultPatterns(reg *lexer.Registry, language string) ([]string, error) {
	names := reg.Languages()
	if language != "" {
		names = []string{language}
	}
	var out []string
	for _, name := range names {
		lx, err := reg.ForLanguage(name)
		if err != nil {
			return nil, err
		}
		for _, ext := range lx.Extensions() {
			out = append(out, "**/*"+ext)
		}
	}
	return out, nil
}
