package nn

import (
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// GELU applies the Gaussian Error Linear Unit activation element-wise,
// using the tanh approximation:
//
//	GELU(x) = 0.5 * x * (1 + tanh(sqrt(2/pi) * (x + 0.044715 * x^3)))
//
// This approximation matches the original GPT/BERT implementations and is
// cheaper than the exact erf formulation.
type GELU struct{}

// NewGELU creates a GELU activation.
func NewGELU() *GELU {
	return &GELU{}
}

// Forward applies GELU to every element, preserving the shape.
func (g *GELU) Forward(x *tensor.Tensor[float32]) *tensor.Tensor[float32] {
	const c = 0.7978845608028654 // sqrt(2/pi)
	out := tensor.Zeros[float32](x.Shape())
	for i, v := range x.Data() {
		xf := float64(v)
		out.Data()[i] = float32(0.5 * xf * (1 + math.Tanh(c*(xf+0.044715*xf*xf*xf))))
	}
	return out
}

// Parameters returns an empty slice; GELU has no trainable state.
func (g *GELU) Parameters() []*Parameter {
	return nil
}
