package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// FFN implements the position-wise feed-forward sublayer of a transformer
// block.
//
// Architecture:
//
//	FFN(x) = Dropout(Linear2(GELU(Linear1(x))))
//
// Linear1 expands from embed_dim to ffn_dim (4x embed_dim in this design)
// and Linear2 projects back. The transformation is applied independently at
// every sequence position; there is no cross-position interaction.
type FFN struct {
	Linear1 *Linear // [embed_dim -> ffn_dim]
	Linear2 *Linear // [ffn_dim -> embed_dim]
	GELU    *GELU
	Dropout *Dropout
}

// NewFFN creates a feed-forward sublayer.
//
// Parameters:
//   - embedDim: input/output dimension
//   - ffnDim: hidden dimension (typically 4 * embedDim)
//   - dropout: dropout probability applied to the output
func NewFFN(embedDim, ffnDim int, dropout float32, rng *rand.Rand) *FFN {
	return &FFN{
		Linear1: NewLinear(embedDim, ffnDim, rng),
		Linear2: NewLinear(ffnDim, embedDim, rng),
		GELU:    NewGELU(),
		Dropout: NewDropout(dropout, rng),
	}
}

// Forward computes the FFN output.
//
// Shapes: [batch, seq, embed_dim] -> [batch, seq, embed_dim].
// Linear layers expect 2D input, so the sequence is flattened and restored.
func (f *FFN) Forward(x *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	shape := x.Shape()
	batch, seq, embedDim := shape[0], shape[1], shape[2]

	out := x.Reshape(batch*seq, embedDim)
	out = f.Linear1.Forward(out)
	out = f.GELU.Forward(out)
	out = f.Linear2.Forward(out)
	out = out.Reshape(batch, seq, embedDim)

	return f.Dropout.Forward(out, train)
}

// Parameters returns the parameters of both linear layers.
func (f *FFN) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 4)
	params = append(params, f.Linear1.Parameters()...)
	params = append(params, f.Linear2.Parameters()...)
	return params
}
