package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// DecoderBlock composes up to three sublayers, each wrapped in residual +
// normalization, in this fixed order:
//
//	x = Norm(x + CausalSelfAttention(x, x, x, decMask))
//	x = Norm(x + CrossAttention(x, encOut, encOut, encMask))  // seq2seq only
//	x = Norm(x + FFN(x))
//	x = Dropout(x)
//
// Self-attention is causal over the decoder's own sequence-so-far.
// Cross-attention queries the encoder output with no causal restriction;
// the decoder may see every valid encoder position, bounded only by the
// encoder's padding mask.
//
// A block built for pure language modeling omits cross-attention entirely.
// This is a configuration of the same block family, not a separate
// algorithm.
type DecoderBlock struct {
	SelfAttention  *MultiHeadAttention
	SelfNorm       *LayerNorm
	CrossAttention *MultiHeadAttention // nil in language-model mode
	CrossNorm      *LayerNorm          // nil in language-model mode
	FFN            *FFN
	FFNNorm        *LayerNorm
	Dropout        *Dropout
}

// NewDecoderBlock creates a decoder block. With crossAttend the block
// carries the cross-attention sublayer for encoder-conditioned decoding;
// without it the block is a causal language-model block.
func NewDecoderBlock(embedDim, numHeads, ffnDim, maxLen int, dropout float32, crossAttend bool, rng *rand.Rand) *DecoderBlock {
	b := &DecoderBlock{
		SelfAttention: NewMultiHeadAttention(embedDim, numHeads, maxLen, true, rng),
		SelfNorm:      NewLayerNorm(embedDim, 1e-5),
		FFN:           NewFFN(embedDim, ffnDim, dropout, rng),
		FFNNorm:       NewLayerNorm(embedDim, 1e-5),
		Dropout:       NewDropout(dropout, rng),
	}
	if crossAttend {
		b.CrossAttention = NewMultiHeadAttention(embedDim, numHeads, maxLen, false, rng)
		b.CrossNorm = NewLayerNorm(embedDim, 1e-5)
	}
	return b
}

// Forward applies the block in language-model mode.
//
// Shapes: x [batch, seq, embed_dim], decMask [batch, seq] or nil.
// Panics if the block was built with cross-attention; an encoder-conditioned
// block cannot silently run without its encoder input.
func (b *DecoderBlock) Forward(x, decMask *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	if b.CrossAttention != nil {
		panic("DecoderBlock.Forward: block has cross-attention, use ForwardWithEncoder")
	}
	x = b.selfAttend(x, decMask)
	return b.finish(x, train)
}

// ForwardWithEncoder applies the block in seq2seq mode.
//
// Shapes:
//   - x: [batch, seq_dec, embed_dim]
//   - encOut: [batch, seq_enc, embed_dim] (precomputed encoder output)
//   - encMask: [batch, seq_enc] or nil
//   - decMask: [batch, seq_dec] or nil
//
// Panics if the block was built without cross-attention.
func (b *DecoderBlock) ForwardWithEncoder(
	x, encOut *tensor.Tensor[float32],
	encMask, decMask *tensor.Tensor[float32],
	train bool,
) *tensor.Tensor[float32] {
	if b.CrossAttention == nil {
		panic("DecoderBlock.ForwardWithEncoder: block has no cross-attention, use Forward")
	}
	x = b.selfAttend(x, decMask)

	crossOut := b.CrossAttention.Forward(x, encOut, encOut, encMask)
	x = b.CrossNorm.Forward(x.Add(crossOut))

	return b.finish(x, train)
}

func (b *DecoderBlock) selfAttend(x, decMask *tensor.Tensor[float32]) *tensor.Tensor[float32] {
	attnOut := b.SelfAttention.Forward(x, x, x, decMask)
	return b.SelfNorm.Forward(x.Add(attnOut))
}

func (b *DecoderBlock) finish(x *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	ffnOut := b.FFN.Forward(x, train)
	x = b.FFNNorm.Forward(x.Add(ffnOut))
	return b.Dropout.Forward(x, train)
}

// Parameters returns all trainable parameters of the block.
func (b *DecoderBlock) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 24)
	params = append(params, b.SelfAttention.Parameters()...)
	params = append(params, b.SelfNorm.Parameters()...)
	if b.CrossAttention != nil {
		params = append(params, b.CrossAttention.Parameters()...)
		params = append(params, b.CrossNorm.Parameters()...)
	}
	params = append(params, b.FFN.Parameters()...)
	params = append(params, b.FFNNorm.Parameters()...)
	return params
}
