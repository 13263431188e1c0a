// Package tokenizer defines the tokenizer collaborator interface the model
// core depends on, and a tiktoken-backed implementation. The core treats
// token ids as opaque integers; everything text-related lives here.
package tokenizer

// Tokenizer is the interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token ids.
	Encode(text string) ([]int32, error)

	// Decode converts token ids back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// BosToken returns the beginning-of-sequence token id, or -1.
	BosToken() int32

	// EosToken returns the end-of-sequence token id, or -1.
	EosToken() int32

	// PadToken returns the padding token id, or -1.
	PadToken() int32
}
