package transformer

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Encoder is a stack of bidirectional transformer blocks producing
// contextual representations of an input sequence.
//
// Forward pipeline: embed token ids, add the positional signal, apply
// NumLayers blocks sequentially (block i's output is block i+1's input),
// then a final layer normalization. Blocks share no state beyond the
// flowing representation.
type Encoder struct {
	Config     Config
	Embedding  *nn.Embedding
	Positional *nn.PositionalEncoding
	Blocks     []*nn.EncoderBlock
	Norm       *nn.LayerNorm
}

// NewEncoder creates an encoder stack. Panics on an invalid config.
func NewEncoder(config Config) *Encoder {
	config.Validate()
	rng := newRNG(config.Seed)

	blocks := make([]*nn.EncoderBlock, config.NumLayers)
	for i := range blocks {
		blocks[i] = nn.NewEncoderBlock(config.ModelDim, config.NumHeads, config.FFNDim(), config.MaxLen, config.Dropout, rng)
	}

	return &Encoder{
		Config:     config,
		Embedding:  nn.NewEmbedding(config.VocabSize, config.ModelDim, rng),
		Positional: nn.NewPositionalEncoding(config.MaxLen, config.ModelDim, config.Dropout, rng),
		Blocks:     blocks,
		Norm:       nn.NewLayerNorm(config.ModelDim, 1e-5),
	}
}

// Forward encodes a batch of token id sequences.
//
// Parameters:
//   - ids: [batch, seq] token ids in [0, VocabSize)
//   - padMask: optional [batch, seq] validity mask (1 valid, 0 padding),
//     or nil when nothing is padded
//   - train: enables dropout
//
// Returns contextual representations [batch, seq, ModelDim].
//
// Panics on ids out of vocabulary range or seq > MaxLen.
func (e *Encoder) Forward(ids *tensor.Tensor[int32], padMask *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	x := e.Embedding.Forward(ids)
	x = e.Positional.Forward(x, train)
	for _, block := range e.Blocks {
		x = block.Forward(x, padMask, train)
	}
	return e.Norm.Forward(x)
}

// Parameters returns all trainable parameters of the stack.
func (e *Encoder) Parameters() []*nn.Parameter {
	params := e.Embedding.Parameters()
	for _, block := range e.Blocks {
		params = append(params, block.Parameters()...)
	}
	return append(params, e.Norm.Parameters()...)
}

// newRNG returns the weight initialization source for a stack.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = rand.Int63()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic init, not security-sensitive
}
