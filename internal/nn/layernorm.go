package nn

import (
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// LayerNorm applies layer normalization along the last dimension.
//
// Formula: y = gamma * (x - mean(x)) / sqrt(var(x) + eps) + beta
//
// Mean and variance are computed per position over the feature dimension,
// which stabilizes the residual stream of deep transformer stacks.
type LayerNorm struct {
	Gamma   *Parameter // learnable scale [d_model]
	Beta    *Parameter // learnable shift [d_model]
	Epsilon float32
}

// NewLayerNorm creates a LayerNorm over the given feature dimension.
// Gamma is initialized to ones, beta to zeros. epsilon is typically 1e-5.
func NewLayerNorm(features int, epsilon float32) *LayerNorm {
	return &LayerNorm{
		Gamma:   NewParameter("gamma", tensor.Ones[float32](tensor.Shape{features})),
		Beta:    NewParameter("beta", tensor.Zeros[float32](tensor.Shape{features})),
		Epsilon: epsilon,
	}
}

// Forward normalizes x along its last dimension.
//
// Shapes: [..., d_model] -> [..., d_model].
func (l *LayerNorm) Forward(x *tensor.Tensor[float32]) *tensor.Tensor[float32] {
	mean := x.MeanDim(-1, true)
	centered := x.Sub(mean)
	variance := centered.Mul(centered).MeanDim(-1, true)

	// rstd = 1 / sqrt(var + eps), broadcast over the feature dimension.
	rstd := variance.Clone()
	for i, v := range rstd.Data() {
		rstd.Data()[i] = float32(1.0 / math.Sqrt(float64(v+l.Epsilon)))
	}
	normed := centered.Mul(rstd)

	// Gamma and beta are [d_model] and broadcast against [..., d_model].
	return normed.Mul(l.Gamma.Tensor()).Add(l.Beta.Tensor())
}

// Parameters returns gamma and beta.
func (l *LayerNorm) Parameters() []*Parameter {
	return []*Parameter{l.Gamma, l.Beta}
}
