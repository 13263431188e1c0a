package nn

import (
	"fmt"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// MultiHeadAttention implements the masked multi-head attention engine.
//
// Architecture:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) * W_O
//	head_i = SDPA(Q*W_Q_i, K*W_K_i, V*W_V_i)
//
// One engine serves all three attention variants a transformer needs; the
// variant is chosen per call site, not by subtype:
//
//	attn.Forward(x, x, x, padMask)        // encoder self-attention
//	attn.Forward(x, x, x, padMask)        // decoder self-attention (Causal: true)
//	attn.Forward(x, encOut, encOut, mask) // cross-attention, no causal flag
//
// A causal engine owns a precomputed triangular mask up to MaxLen, built once
// at construction and sliced per call.
type MultiHeadAttention struct {
	WQ       *Linear // query projection [embed_dim, embed_dim]
	WK       *Linear // key projection
	WV       *Linear // value projection
	WO       *Linear // output projection
	NumHeads int
	HeadDim  int
	EmbedDim int
	Causal   bool
	causal   *CausalMask // nil unless Causal
}

// NewMultiHeadAttention creates a multi-head attention engine.
//
// Parameters:
//   - embedDim: total embedding dimension (must be divisible by numHeads)
//   - numHeads: number of parallel attention heads
//   - maxLen: maximum sequence length (bounds the causal table)
//   - causal: whether each query may only attend to itself and earlier keys
//
// Panics at construction on an invalid dimension combination; a mismatched
// head split must not surface later as a shape failure mid-forward.
func NewMultiHeadAttention(embedDim, numHeads, maxLen int, causal bool, rng *rand.Rand) *MultiHeadAttention {
	if numHeads <= 0 {
		panic(fmt.Sprintf("MultiHeadAttention: numHeads must be positive, got %d", numHeads))
	}
	if embedDim%numHeads != 0 {
		panic(fmt.Sprintf("MultiHeadAttention: embed_dim (%d) must be divisible by num_heads (%d)", embedDim, numHeads))
	}

	m := &MultiHeadAttention{
		WQ:       NewLinear(embedDim, embedDim, rng),
		WK:       NewLinear(embedDim, embedDim, rng),
		WV:       NewLinear(embedDim, embedDim, rng),
		WO:       NewLinear(embedDim, embedDim, rng),
		NumHeads: numHeads,
		HeadDim:  embedDim / numHeads,
		EmbedDim: embedDim,
		Causal:   causal,
	}
	if causal {
		m.causal = NewCausalMask(maxLen)
	}
	return m
}

// Forward computes multi-head attention.
//
// Parameters:
//   - query: [batch, seq_q, embed_dim]
//   - key: [batch, seq_k, embed_dim]
//   - value: [batch, seq_k, embed_dim]
//   - keyMask: optional key-side padding mask [batch, seq_k], 1 at valid
//     positions and 0 at padding, or nil
//
// For self-attention pass the same tensor for query, key and value; for
// cross-attention the query comes from the decoder and key/value from the
// encoder output, whose lengths may differ.
//
// Returns [batch, seq_q, embed_dim].
func (m *MultiHeadAttention) Forward(
	query, key, value *tensor.Tensor[float32],
	keyMask *tensor.Tensor[float32],
) *tensor.Tensor[float32] {
	out, _ := m.ForwardWithWeights(query, key, value, keyMask)
	return out
}

// ForwardWithWeights is Forward returning the attention weights as well,
// shape [batch, heads, seq_q, seq_k]. Used for analysis and by tests of the
// masking invariants.
func (m *MultiHeadAttention) ForwardWithWeights(
	query, key, value *tensor.Tensor[float32],
	keyMask *tensor.Tensor[float32],
) (*tensor.Tensor[float32], *tensor.Tensor[float32]) {
	batch := query.Shape()[0]
	seqQ := query.Shape()[1]
	seqK := key.Shape()[1]

	// 1. Project into h parallel heads of HeadDim each.
	q := m.project(query, m.WQ, batch, seqQ)
	k := m.project(key, m.WK, batch, seqK)
	v := m.project(value, m.WV, batch, seqK)

	// 2. Split heads: [batch, seq, h*d] -> [batch, h, seq, d] so all heads
	// share one batched multiply.
	q = q.Reshape(batch, seqQ, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
	k = k.Reshape(batch, seqK, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
	v = v.Reshape(batch, seqK, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)

	// 3. Combine padding and causal constraints into one additive mask.
	mask := m.buildMask(keyMask, seqQ, seqK)

	attnOut, weights := ScaledDotProductAttention(q, k, v, mask)

	// 4. Merge heads back and apply the output projection.
	attnOut = attnOut.Transpose(0, 2, 1, 3).Reshape(batch*seqQ, m.EmbedDim)
	output := m.WO.Forward(attnOut).Reshape(batch, seqQ, m.EmbedDim)
	return output, weights
}

// buildMask assembles the additive score mask for one call, or nil when
// neither constraint applies.
func (m *MultiHeadAttention) buildMask(keyMask *tensor.Tensor[float32], seqQ, seqK int) *tensor.Tensor[float32] {
	var mask *tensor.Tensor[float32]
	if keyMask != nil {
		if keyMask.Shape()[1] != seqK {
			panic(fmt.Sprintf("MultiHeadAttention: key mask length %d does not match key length %d",
				keyMask.Shape()[1], seqK))
		}
		mask = PaddingMask(keyMask)
	}
	if m.Causal {
		causal := m.causal.Slice(seqQ, seqK)
		if mask == nil {
			mask = causal
		} else {
			mask = mask.Add(causal)
		}
	}
	return mask
}

// project reshapes to 2D, applies the linear projection, and restores 3D.
func (m *MultiHeadAttention) project(
	input *tensor.Tensor[float32],
	linear *Linear,
	batch, seq int,
) *tensor.Tensor[float32] {
	out := linear.Forward(input.Reshape(batch*seq, m.EmbedDim))
	return out.Reshape(batch, seq, m.EmbedDim)
}

// Parameters returns the parameters of all four projections.
func (m *MultiHeadAttention) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 8)
	params = append(params, m.WQ.Parameters()...)
	params = append(params, m.WK.Parameters()...)
	params = append(params, m.WV.Parameters()...)
	params = append(params, m.WO.Parameters()...)
	return params
}
