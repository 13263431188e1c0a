package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// PositionalEncoding adds fixed sinusoidal position information to embedded
// sequences, as in "Attention is All You Need" (Vaswani et al., 2017).
//
// Mathematical formulation:
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/d))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/d))
//
// The table is precomputed once for all positions up to MaxLen and is
// immutable for the lifetime of the layer; each forward call slices the
// first seqLen rows. There are no learnable parameters.
type PositionalEncoding struct {
	Encoding *tensor.Tensor[float32] // [MaxLen, Dim], precomputed
	MaxLen   int
	Dim      int
	Dropout  *Dropout
}

// NewPositionalEncoding precomputes the sinusoidal table.
//
// Parameters:
//   - maxLen: maximum sequence length supported
//   - dim: model (embedding) dimension
//   - dropout: dropout probability applied after the addition
func NewPositionalEncoding(maxLen, dim int, dropout float32, rng *rand.Rand) *PositionalEncoding {
	if maxLen <= 0 {
		panic(fmt.Sprintf("PositionalEncoding: maxLen must be positive, got %d", maxLen))
	}
	if dim <= 0 {
		panic(fmt.Sprintf("PositionalEncoding: dim must be positive, got %d", dim))
	}

	encodings := make([]float32, maxLen*dim)
	for pos := 0; pos < maxLen; pos++ {
		for i := 0; i < dim; i++ {
			angle := float64(pos) / math.Pow(10000.0, float64(2*(i/2))/float64(dim))
			idx := pos*dim + i
			if i%2 == 0 {
				encodings[idx] = float32(math.Sin(angle))
			} else {
				encodings[idx] = float32(math.Cos(angle))
			}
		}
	}

	return &PositionalEncoding{
		Encoding: tensor.MustFromSlice(encodings, tensor.Shape{maxLen, dim}),
		MaxLen:   maxLen,
		Dim:      dim,
		Dropout:  NewDropout(dropout, rng),
	}
}

// Forward adds the position signal to an embedded sequence and applies
// dropout.
//
// Shapes: [batch, seq, dim] -> [batch, seq, dim]. The table rows [:seq] are
// broadcast over the batch.
//
// Panics if seq exceeds MaxLen; the precomputed table cannot be sliced
// beyond its extent.
func (p *PositionalEncoding) Forward(x *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	shape := x.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("PositionalEncoding.Forward: expected 3D input [batch, seq, dim], got shape %v", shape))
	}
	seq := shape[1]
	if seq > p.MaxLen {
		panic(fmt.Sprintf("PositionalEncoding.Forward: sequence length %d exceeds MaxLen %d", seq, p.MaxLen))
	}
	if shape[2] != p.Dim {
		panic(fmt.Sprintf("PositionalEncoding.Forward: expected dim %d, got %d", p.Dim, shape[2]))
	}

	// Slice the first seq rows and broadcast over the batch: [1, seq, dim].
	table := p.Encoding.Data()[:seq*p.Dim]
	slice := make([]float32, len(table))
	copy(slice, table)
	pe := tensor.MustFromSlice(slice, tensor.Shape{1, seq, p.Dim})

	return p.Dropout.Forward(x.Add(pe), train)
}

// Parameters returns an empty slice; the encoding table is not trainable.
func (p *PositionalEncoding) Parameters() []*Parameter {
	return nil
}
