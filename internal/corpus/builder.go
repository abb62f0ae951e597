package corpus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cbt-ml/cbt/internal/codec"
	"github.com/cbt-ml/cbt/internal/lexer"
	"github.com/cbt-ml/cbt/internal/parallel"
	"github.com/cbt-ml/cbt/internal/symtab"
)

// Source is one file to encode.
type Source struct {
	Path     string
	Language string // empty selects the lexer by extension
	Text     string
}

// File describes an encoded file in a Result.
type File struct {
	Path         string `json:"path"`
	Language     string `json:"language"`
	SourceRunes  int    `json:"source_runes"`
	EncodedRunes int    `json:"encoded_runes"`
}

// Result is the outcome of a build.
type Result struct {
	Corpus   string     // concatenated streams, each ending in EOF
	Files    []File     // encoded files, input order
	Failures []*Failure // skipped files, input order
	Stats    Stats
}

// Reported returns the failures the build's policy did not silence.
func (r *Result) Reported() []*Failure {
	var out []*Failure
	for _, f := range r.Failures {
		if f.Reported {
			out = append(out, f)
		}
	}
	return out
}

// Languages returns the distinct languages of encoded files, sorted.
func (r *Result) Languages() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range r.Files {
		if _, ok := seen[f.Language]; ok {
			continue
		}
		seen[f.Language] = struct{}{}
		out = append(out, f.Language)
	}
	sort.Strings(out)
	return out
}

// Builder encodes many files into one corpus.
//
// Files are encoded concurrently but concatenated in input order. A file
// that fails is left out of the corpus and of every statistic; only
// cancellation stops a build.
type Builder struct {
	Registry *lexer.Registry
	Table    *symtab.Table
	Policy   FailurePolicy
	Parallel parallel.Config
	Logger   *log.Logger // nil is silent
}

type outcome struct {
	file   File
	stream string
	fail   *Failure
}

// Build encodes in-memory sources.
func (b *Builder) Build(ctx context.Context, sources []Source) (*Result, error) {
	paths := make([]string, len(sources))
	for i, s := range sources {
		paths[i] = s.Path
	}
	return b.build(ctx, paths, func(i int) (Source, error) {
		return sources[i], nil
	})
}

// BuildFiles loads and encodes files from disk. A non-empty language
// forces one lexer for every file.
func (b *Builder) BuildFiles(ctx context.Context, paths []string, language string) (*Result, error) {
	return b.build(ctx, paths, func(i int) (Source, error) {
		return LoadSource(paths[i], language)
	})
}

func (b *Builder) build(ctx context.Context, paths []string, fetch func(i int) (Source, error)) (*Result, error) {
	if b.Registry == nil || b.Table == nil {
		return nil, errors.New("corpus: builder needs a registry and a table")
	}

	outcomes := make([]outcome, len(paths))
	parallel.For(len(paths), func(i int) {
		if ctx.Err() != nil {
			return
		}
		outcomes[i] = b.encodeOne(paths[i], fetch, i)
	}, b.Parallel)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build canceled: %w", err)
	}

	res := &Result{}
	var sb strings.Builder
	for _, o := range outcomes {
		if o.fail != nil {
			if b.Policy.Silences(o.fail.Class) {
				b.logf("skip %v", o.fail)
			} else {
				o.fail.Reported = true
				b.logf("error (policy %s): %v", b.Policy, o.fail)
			}
			res.Failures = append(res.Failures, o.fail)
			continue
		}
		sb.WriteString(o.stream)
		res.Files = append(res.Files, o.file)
	}
	res.Corpus = sb.String()
	res.Stats = Measure(res.Corpus, b.Table, nil)
	res.Stats.Failed = len(res.Failures)
	return res, nil
}

func (b *Builder) encodeOne(path string, fetch func(i int) (Source, error), i int) outcome {
	src, err := fetch(i)
	if err != nil {
		return outcome{fail: &Failure{Path: path, Class: ClassRead, Err: err}}
	}

	var lx lexer.Lexer
	if src.Language != "" {
		lx, err = b.Registry.ForLanguage(src.Language)
	} else {
		lx, err = b.Registry.ForPath(src.Path)
	}
	if err != nil {
		return outcome{fail: &Failure{Path: path, Class: ClassLanguage, Err: err}}
	}

	stream, err := codec.NewEncoder(b.Table, lx).Encode(src.Text)
	if err != nil {
		return outcome{fail: &Failure{Path: path, Class: classify(err), Err: err}}
	}
	return outcome{
		stream: stream,
		file: File{
			Path:         path,
			Language:     lx.Language(),
			SourceRunes:  utf8.RuneCountInString(src.Text),
			EncodedRunes: utf8.RuneCountInString(stream),
		},
	}
}

// classify maps an encode error to its failure class.
func classify(err error) Class {
	switch {
	case errors.Is(err, codec.ErrUnmappedToken):
		return ClassUnmapped
	case errors.Is(err, codec.ErrStructuralMismatch):
		return ClassMismatch
	case errors.Is(err, codec.ErrReservedSymbol):
		return ClassReserved
	default:
		return ClassLex
	}
}

func (b *Builder) logf(format string, args ...any) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}
