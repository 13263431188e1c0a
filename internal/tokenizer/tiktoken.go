package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// encodingCL100kBase is the encoding used by GPT-4 era models.
	encodingCL100kBase = "cl100k_base"
	// encodingP50kBase is the encoding used by GPT-3 era models.
	encodingP50kBase = "p50k_base"
)

// TikToken wraps the pkoukk/tiktoken-go library.
//
// It satisfies Tokenizer, which is all the generation loop needs; the model
// never sees text.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a tokenizer for the given encoding.
//
// Supported encodings: "cl100k_base", "p50k_base".
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encodingName, err)
	}
	return &TikToken{encoding: encoding, name: encodingName}, nil
}

// Encode converts text to token ids.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)
	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // token ids fit in int32, vocab < 2^31
	}
	return result, nil
}

// Decode converts token ids back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	intTokens := make([]int, len(tokens))
	for i, tok := range tokens {
		intTokens[i] = int(tok)
	}
	return t.encoding.Decode(intTokens), nil
}

// VocabSize returns the vocabulary size for the encoding.
func (t *TikToken) VocabSize() int {
	switch t.name {
	case encodingCL100kBase:
		return 100256
	case encodingP50kBase:
		return 50257
	default:
		return 100000
	}
}

// BosToken returns -1; tiktoken encodings define no BOS token.
func (t *TikToken) BosToken() int32 {
	return -1
}

// EosToken returns the <|endoftext|> id for the encoding.
func (t *TikToken) EosToken() int32 {
	switch t.name {
	case encodingCL100kBase:
		return 100257
	case encodingP50kBase:
		return 50256
	default:
		return -1
	}
}

// PadToken returns -1; tiktoken encodings define no padding token.
func (t *TikToken) PadToken() int32 {
	return -1
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}
