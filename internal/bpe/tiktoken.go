// Package bpe measures text in BPE tokens so corpus statistics can compare
// symbol streams against what a stock subword tokenizer would produce.
package bpe

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// EncodingCL100kBase is the encoding name for GPT-4 and GPT-3.5-turbo.
	EncodingCL100kBase = "cl100k_base"
	// EncodingP50kBase is the encoding name for GPT-3 and Codex.
	EncodingP50kBase = "p50k_base"
)

// Counter counts the tokens a tokenizer would produce for a text.
type Counter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Name returns the encoding or model name.
	Name() string
}

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo
//   - p50k_base: GPT-3, Codex
//   - r50k_base: GPT-3, davinci-002, babbage-002
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a TikToken counter for the named encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// NewTikTokenForModel creates a TikToken counter for a specific model.
//
// Example models: "gpt-4", "gpt-3.5-turbo", "code-davinci-002".
func NewTikTokenForModel(modelName string) (*TikToken, error) {
	encoding, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken for model %q: %w", modelName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     modelName,
	}, nil
}

// Count returns the number of tokens in text.
func (t *TikToken) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Name returns the encoding or model name.
func (t *TikToken) Name() string {
	return t.name
}
