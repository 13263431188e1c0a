package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// Masks are applied additively to attention scores before softmax: a valid
// position contributes 0 and a masked position contributes -Inf, so masked
// positions vanish after normalization. Additive masks compose by addition,
// which is how the decoder combines its padding mask with the causal
// constraint.

// PaddingMask converts a key-side 0/1 validity mask [batch, seq_k] into an
// additive attention mask [batch, 1, 1, seq_k] that broadcasts across heads
// and query positions.
//
// The input mask is caller-supplied, 1 at valid positions and 0 at padding,
// and is never mutated.
func PaddingMask(mask *tensor.Tensor[float32]) *tensor.Tensor[float32] {
	shape := mask.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("PaddingMask: expected 2D mask [batch, seq], got shape %v", shape))
	}
	batch, seq := shape[0], shape[1]

	negInf := float32(math.Inf(-1))
	out := tensor.Zeros[float32](tensor.Shape{batch, 1, 1, seq})
	for i, v := range mask.Data() {
		if v == 0 {
			out.Data()[i] = negInf
		}
	}
	return out
}

// CausalMask is a fixed lower-triangular constraint forbidding a position
// from attending to any later position. The full [maxLen, maxLen] table is
// built once at construction and sliced per call; it is constant for the
// lifetime of the decoder stack that owns it.
type CausalMask struct {
	MaxLen  int
	allowed []bool // [maxLen * maxLen], true where key <= query
}

// NewCausalMask precomputes the triangular table, diagonal included: a
// position may attend to itself and everything before it.
func NewCausalMask(maxLen int) *CausalMask {
	if maxLen <= 0 {
		panic(fmt.Sprintf("CausalMask: maxLen must be positive, got %d", maxLen))
	}
	allowed := make([]bool, maxLen*maxLen)
	for i := 0; i < maxLen; i++ {
		for j := 0; j <= i; j++ {
			allowed[i*maxLen+j] = true
		}
	}
	return &CausalMask{MaxLen: maxLen, allowed: allowed}
}

// Slice returns the additive causal mask for the current call as a
// [1, 1, seqQ, seqK] tensor: 0 where the key position is not later than the
// query position, -Inf above the diagonal.
//
// Panics if either length exceeds MaxLen.
func (c *CausalMask) Slice(seqQ, seqK int) *tensor.Tensor[float32] {
	if seqQ > c.MaxLen || seqK > c.MaxLen {
		panic(fmt.Sprintf("CausalMask.Slice: lengths (%d, %d) exceed MaxLen %d", seqQ, seqK, c.MaxLen))
	}

	negInf := float32(math.Inf(-1))
	out := tensor.Zeros[float32](tensor.Shape{1, 1, seqQ, seqK})
	for i := 0; i < seqQ; i++ {
		for j := 0; j < seqK; j++ {
			if !c.allowed[i*c.MaxLen+j] {
				out.Data()[i*seqK+j] = negInf
			}
		}
	}
	return out
}
