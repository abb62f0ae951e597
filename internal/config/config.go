// Package config loads the YAML configuration of a corpus build.
//
// Example file:
//
//	language: python
//	root: ./repos
//	include:
//	  - "**/*.py"
//	output: data/python_tokenized.txt.zst
//	policy: skip-all
//	workers: 8
//	bpe_encoding: cl100k_base
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Failure policy names accepted in Policy.
const (
	PolicySkipAll      = "skip-all"
	PolicySkipUnmapped = "skip-unmapped"
)

// Validation errors.
var (
	ErrNoRoot     = errors.New("config: root is required")
	ErrNoOutput   = errors.New("config: output is required")
	ErrBadPolicy  = errors.New("config: unknown policy")
	ErrBadWorkers = errors.New("config: workers must be >= 0")
	ErrBadInclude = errors.New("config: empty include pattern")
)

// Config describes one corpus build.
type Config struct {
	// Language forces a lexer for every file. Empty selects by extension.
	Language string `yaml:"language,omitempty"`

	// Root is the directory scanned for sources.
	Root string `yaml:"root"`

	// Include lists ** glob patterns relative to Root. Empty matches every
	// extension registered for Language, or for all languages.
	Include []string `yaml:"include,omitempty"`

	// Output is the corpus path; a .zst suffix compresses it.
	Output string `yaml:"output"`

	// Policy is PolicySkipAll or PolicySkipUnmapped.
	Policy string `yaml:"policy,omitempty"`

	// Workers caps encoding goroutines; 0 uses one per CPU.
	Workers int `yaml:"workers,omitempty"`

	// BPEEncoding, if set, adds BPE token counts to the build statistics.
	// It names a tiktoken encoding or model, or a tokenizer.json path.
	BPEEncoding string `yaml:"bpe_encoding,omitempty"`
}

// Default returns a configuration with every optional field filled in.
func Default() Config {
	return Config{Policy: PolicySkipAll}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for a build.
func (c Config) Validate() error {
	switch {
	case c.Root == "":
		return ErrNoRoot
	case c.Output == "":
		return ErrNoOutput
	case c.Workers < 0:
		return fmt.Errorf("%w: %d", ErrBadWorkers, c.Workers)
	}
	switch c.Policy {
	case PolicySkipAll, PolicySkipUnmapped:
	default:
		return fmt.Errorf("%w %q (want %s or %s)", ErrBadPolicy, c.Policy, PolicySkipAll, PolicySkipUnmapped)
	}
	for _, p := range c.Include {
		if strings.TrimSpace(p) == "" {
			return ErrBadInclude
		}
	}
	return nil
}
