package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cbt-ml/cbt/internal/bpe"
	"github.com/cbt-ml/cbt/internal/codec"
	"github.com/cbt-ml/cbt/internal/config"
	"github.com/cbt-ml/cbt/internal/corpus"
	"github.com/cbt-ml/cbt/internal/lexer/langs"
	"github.com/cbt-ml/cbt/internal/parallel"
	"github.com/cbt-ml/cbt/internal/symtab"
	"github.com/cbt-ml/cbt/internal/vocab"
)

var errUsage = errors.New("wrong number of arguments")

// parse parses args and checks the positional argument count.
func parse(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != positional {
		fs.Usage()
		return nil, fmt.Errorf("%s: %w", fs.Name(), errUsage)
	}
	return fs.Args(), nil
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	lang := fs.String("lang", "", "source language (default: from file extension)")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	src, err := corpus.LoadSource(rest[0], *lang)
	if err != nil {
		return err
	}
	reg := langs.Default()
	lx, err := reg.ForPath(src.Path)
	if *lang != "" {
		lx, err = reg.ForLanguage(*lang)
	}
	if err != nil {
		return err
	}

	stream, err := codec.NewEncoder(symtab.Default(), lx).Encode(src.Text)
	if err != nil {
		return fmt.Errorf("%s: %w", src.Path, err)
	}
	_, err = os.Stdout.WriteString(stream)
	return err
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	table := symtab.Default()
	text, _, err := corpus.Read(rest[0], table)
	if err != nil {
		return err
	}
	dec := codec.NewDecoder(table)
	for seg := range codec.NewSplitter(table).Segments(text) {
		if _, err := os.Stdout.WriteString(dec.DecodeFile(seg)); err != nil {
			return err
		}
	}
	return nil
}

func runSplit(args []string) error {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	decode := fs.Bool("decode", false, "write decoded text instead of symbol streams")
	out := fs.String("out", "", "output directory")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if *out == "" {
		return errors.New("split: -out is required")
	}

	table := symtab.Default()
	text, m, err := corpus.Read(rest[0], table)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	dec := codec.NewDecoder(table)
	n := 0
	for seg := range codec.NewSplitter(table).Segments(text) {
		ext := ".sym"
		if *decode {
			seg = dec.DecodeFile(seg)
			ext = ".txt"
			if m != nil && n < len(m.Files) {
				ext = filepath.Ext(m.Files[n].Path)
			}
		}
		name := filepath.Join(*out, fmt.Sprintf("%06d%s", n, ext))
		if err := os.WriteFile(name, []byte(seg), 0o600); err != nil {
			return fmt.Errorf("failed to write segment: %w", err)
		}
		n++
	}
	log.Printf("wrote %d files to %s", n, *out)
	return nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "YAML build configuration")
	lang := fs.String("lang", "", "force one source language")
	root := fs.String("root", "", "directory to scan")
	out := fs.String("out", "", "corpus path (.zst compresses)")
	policy := fs.String("policy", "", "failure policy: skip-all or skip-unmapped")
	workers := fs.Int("workers", 0, "encoding goroutines (0: one per CPU)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lang":
			cfg.Language = *lang
		case "root":
			cfg.Root = *root
		case "out":
			cfg.Output = *out
		case "policy":
			cfg.Policy = *policy
		case "workers":
			cfg.Workers = *workers
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	pol, err := corpus.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	reg := langs.Default()
	patterns := cfg.Include
	if len(patterns) == 0 {
		if patterns, err = corpus.DefaultPatterns(reg, cfg.Language); err != nil {
			return err
		}
	}
	paths, err := corpus.Discover(cfg.Root, patterns)
	if err != nil {
		return err
	}
	log.Printf("found %d files under %s", len(paths), cfg.Root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	table := symtab.Default()
	b := &corpus.Builder{
		Registry: reg,
		Table:    table,
		Policy:   pol,
		Parallel: parallel.DefaultConfig().WithWorkers(cfg.Workers),
		Logger:   log.Default(),
	}
	res, err := b.BuildFiles(ctx, paths, cfg.Language)
	if err != nil {
		return err
	}
	if err := corpus.Write(cfg.Output, res, table); err != nil {
		return err
	}

	s := res.Stats
	if cfg.BPEEncoding != "" {
		counter, err := bpe.Open(cfg.BPEEncoding)
		if err != nil {
			return err
		}
		s = corpus.Measure(res.Corpus, table, counter)
		s.Failed = len(res.Failures)
	}
	log.Printf("encoded %d files, skipped %d, ratio %.3f -> %s", s.Files, s.Failed, s.Ratio(), cfg.Output)
	if s.BPEEncoding != "" {
		log.Printf("%s tokens: source %d, encoded %d", s.BPEEncoding, s.BPESource, s.BPEEncoded)
	}
	if n := len(res.Reported()); n > 0 {
		return fmt.Errorf("%d files failed outside policy %s; corpus written without them", n, pol)
	}
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	enc := fs.String("bpe", "", "tiktoken encoding or model, or tokenizer.json path, to compare against")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	table := symtab.Default()
	text, m, err := corpus.Read(rest[0], table)
	if err != nil {
		return err
	}
	var counter bpe.Counter
	if *enc != "" {
		if counter, err = bpe.Open(*enc); err != nil {
			return err
		}
	}
	s := corpus.Measure(text, table, counter)
	if m != nil {
		s.Failed = len(m.Failures)
	}

	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(struct {
		corpus.Stats
		Ratio float64 `json:"ratio"`
	}{s, s.Ratio()})
}

func runVocab(args []string) error {
	fs := flag.NewFlagSet("vocab", flag.ContinueOnError)
	out := fs.String("out", "word_to_index.json", "index file to write")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	table := symtab.Default()
	text, _, err := corpus.Read(rest[0], table)
	if err != nil {
		return err
	}
	v := vocab.Build(text, table)

	//nolint:gosec // G304: output path comes from the user.
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := v.WriteIndex(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("vocabulary of %d runes (eos id %d) -> %s", v.VocabSize(), v.EosToken(), *out)
	return nil
}
