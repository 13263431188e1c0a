package generate

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tokenizer"
)

// TextGenerator composes a Generator with a tokenizer collaborator so
// callers work in text instead of token ids.
type TextGenerator struct {
	generator *Generator
	tokenizer tokenizer.Tokenizer
}

// NewTextGenerator creates a text-level wrapper around a Generator.
func NewTextGenerator(generator *Generator, tok tokenizer.Tokenizer) *TextGenerator {
	return &TextGenerator{generator: generator, tokenizer: tok}
}

// Generate encodes the prompt, runs greedy decoding, and decodes the result
// back to text. The stop and start ids come from the generator's Config,
// not from the tokenizer.
func (t *TextGenerator) Generate(prompt string) (string, error) {
	prefix, err := t.tokenizer.Encode(prompt)
	if err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}

	ids := t.generator.Generate(prefix)

	// Strip the end token before decoding; it is a control id.
	if n := len(ids); n > 0 && ids[n-1] == t.generator.config.EndToken {
		ids = ids[:n-1]
	}

	text, err := t.tokenizer.Decode(ids)
	if err != nil {
		return "", fmt.Errorf("decode output: %w", err)
	}
	return text, nil
}
