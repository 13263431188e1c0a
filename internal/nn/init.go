package nn

import (
	"math"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Xavier returns a tensor initialized with Xavier (Glorot) uniform values.
//
// Values are drawn from U(-bound, bound) with bound = sqrt(6/(fanIn+fanOut)),
// which keeps the variance of activations roughly constant across layers.
//
// The random source is explicit so model construction is reproducible.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor[float32] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return tensor.MustFromSlice(data, shape)
}
