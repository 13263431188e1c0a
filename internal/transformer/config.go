// Package transformer assembles the nn building blocks into full encoder and
// decoder stacks: token embedding, positional encoding, N residual blocks,
// final normalization, and (for the decoder) the projection to vocabulary
// logits.
package transformer

import (
	"fmt"
)

// Config defines the construction parameters shared by encoder and decoder
// stacks. All fields are required.
//
// Example (a small seq2seq model):
//
//	config := transformer.Config{
//	    VocabSize: 32000,
//	    MaxLen:    512,
//	    ModelDim:  256,
//	    NumHeads:  8,
//	    HeadDim:   32,
//	    NumLayers: 6,
//	    Dropout:   0.1,
//	    Seed:      42,
//	}
type Config struct {
	VocabSize int     // vocabulary size (embedding rows, logit columns)
	MaxLen    int     // maximum sequence length (positional/causal tables)
	ModelDim  int     // d_model: embedding dimension
	NumHeads  int     // number of attention heads
	HeadDim   int     // d_k: per-head key/value dimension
	NumLayers int     // number of blocks in the stack
	Dropout   float32 // dropout probability, [0, 1)
	Seed      int64   // weight initialization seed; 0 draws a random seed
}

// FFNDim returns the feed-forward hidden dimension, 4x the model dimension.
func (c Config) FFNDim() int {
	return 4 * c.ModelDim
}

// Validate panics on an invalid configuration. Dimension mismatches are
// rejected here, at construction, rather than surfacing as shape failures
// deep inside a forward pass.
func (c Config) Validate() {
	if c.VocabSize <= 0 {
		panic(fmt.Sprintf("transformer.Config: VocabSize must be positive, got %d", c.VocabSize))
	}
	if c.MaxLen <= 0 {
		panic(fmt.Sprintf("transformer.Config: MaxLen must be positive, got %d", c.MaxLen))
	}
	if c.ModelDim <= 0 {
		panic(fmt.Sprintf("transformer.Config: ModelDim must be positive, got %d", c.ModelDim))
	}
	if c.NumHeads <= 0 {
		panic(fmt.Sprintf("transformer.Config: NumHeads must be positive, got %d", c.NumHeads))
	}
	if c.HeadDim <= 0 {
		panic(fmt.Sprintf("transformer.Config: HeadDim must be positive, got %d", c.HeadDim))
	}
	if c.ModelDim != c.NumHeads*c.HeadDim {
		panic(fmt.Sprintf("transformer.Config: ModelDim (%d) must equal NumHeads (%d) * HeadDim (%d)",
			c.ModelDim, c.NumHeads, c.HeadDim))
	}
	if c.NumLayers <= 0 {
		panic(fmt.Sprintf("transformer.Config: NumLayers must be positive, got %d", c.NumLayers))
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		panic(fmt.Sprintf("transformer.Config: Dropout must be in [0, 1), got %v", c.Dropout))
	}
}
