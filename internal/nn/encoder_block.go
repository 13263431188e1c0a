package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// EncoderBlock composes self-attention and the feed-forward sublayer with
// residual connections and layer normalization:
//
//	x = Norm(x + SelfAttention(x, x, x, padMask))
//	x = Norm(x + FFN(x))
//	x = Dropout(x)
//
// The residual (add-then-normalize) connections ease gradient flow and
// stabilize deep stacking. Encoder attention is bidirectional: every valid
// position attends to every other valid position, with only the padding
// mask applied.
type EncoderBlock struct {
	Attention *MultiHeadAttention
	AttnNorm  *LayerNorm
	FFN       *FFN
	FFNNorm   *LayerNorm
	Dropout   *Dropout
}

// NewEncoderBlock creates an encoder block.
func NewEncoderBlock(embedDim, numHeads, ffnDim, maxLen int, dropout float32, rng *rand.Rand) *EncoderBlock {
	return &EncoderBlock{
		Attention: NewMultiHeadAttention(embedDim, numHeads, maxLen, false, rng),
		AttnNorm:  NewLayerNorm(embedDim, 1e-5),
		FFN:       NewFFN(embedDim, ffnDim, dropout, rng),
		FFNNorm:   NewLayerNorm(embedDim, 1e-5),
		Dropout:   NewDropout(dropout, rng),
	}
}

// Forward applies the block.
//
// Shapes: x [batch, seq, embed_dim], padMask [batch, seq] or nil.
// Returns [batch, seq, embed_dim].
func (b *EncoderBlock) Forward(x, padMask *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	attnOut := b.Attention.Forward(x, x, x, padMask)
	x = b.AttnNorm.Forward(x.Add(attnOut))

	ffnOut := b.FFN.Forward(x, train)
	x = b.FFNNorm.Forward(x.Add(ffnOut))

	return b.Dropout.Forward(x, train)
}

// Parameters returns all trainable parameters of the block.
func (b *EncoderBlock) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 16)
	params = append(params, b.Attention.Parameters()...)
	params = append(params, b.AttnNorm.Parameters()...)
	params = append(params, b.FFN.Parameters()...)
	params = append(params, b.FFNNorm.Parameters()...)
	return params
}
