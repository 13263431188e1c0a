package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// ScaledDotProductAttention computes attention over pre-split heads:
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(d_k)) * V
//
// The 1/sqrt(d_k) scaling keeps score magnitudes independent of the head
// dimension so the softmax stays well-conditioned.
//
// Parameters:
//   - query: [batch, heads, seq_q, head_dim]
//   - key: [batch, heads, seq_k, head_dim]
//   - value: [batch, heads, seq_k, head_dim]
//   - mask: optional additive mask broadcastable to
//     [batch, heads, seq_q, seq_k] (-Inf at masked positions), or nil
//
// Returns:
//   - output: [batch, heads, seq_q, head_dim]
//   - weights: [batch, heads, seq_q, seq_k]
//
// Every non-fully-masked weight row is a probability distribution over key
// positions with exactly zero mass at masked positions. A query whose keys
// are all masked gets an all-zero weight row, and therefore a zero output
// vector, rather than NaN.
func ScaledDotProductAttention(
	query, key, value *tensor.Tensor[float32],
	mask *tensor.Tensor[float32],
) (*tensor.Tensor[float32], *tensor.Tensor[float32]) {
	validateAttentionInputs(query, key, value)

	headDim := query.Shape()[3]
	scale := float32(1.0 / math.Sqrt(float64(headDim)))

	// Scores: Q @ K^T / sqrt(d_k), shape [batch, heads, seq_q, seq_k].
	kT := key.Transpose(0, 1, 3, 2)
	scores := query.BatchMatMul(kT).MulScalar(scale)

	if mask != nil {
		scores = scores.Add(mask)
	}

	weights := scores.Softmax(-1)
	output := weights.BatchMatMul(value)
	return output, weights
}

func validateAttentionInputs(query, key, value *tensor.Tensor[float32]) {
	if len(query.Shape()) != 4 || len(key.Shape()) != 4 || len(value.Shape()) != 4 {
		panic("ScaledDotProductAttention: operands must be 4D [batch, heads, seq, head_dim]")
	}
	if query.Shape()[3] != key.Shape()[3] {
		panic(fmt.Sprintf("ScaledDotProductAttention: query and key head_dim mismatch: %d vs %d",
			query.Shape()[3], key.Shape()[3]))
	}
	if key.Shape()[2] != value.Shape()[2] {
		panic(fmt.Sprintf("ScaledDotProductAttention: key and value seq length mismatch: %d vs %d",
			key.Shape()[2], value.Shape()[2]))
	}
}
