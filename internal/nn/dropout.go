package nn

import (
	"fmt"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Dropout randomly zeroes elements with probability P during training and
// rescales the survivors by 1/(1-P) (inverted dropout), so the expected
// activation is unchanged. At inference (train=false) it is the identity.
type Dropout struct {
	P   float32
	rng *rand.Rand
}

// NewDropout creates a Dropout layer.
// Panics if p is outside [0, 1).
func NewDropout(p float32, rng *rand.Rand) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("Dropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout{P: p, rng: rng}
}

// Forward applies dropout to x when train is true; otherwise returns x
// unchanged.
func (d *Dropout) Forward(x *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	if !train || d.P == 0 {
		return x
	}

	scale := 1 / (1 - d.P)
	out := tensor.Zeros[float32](x.Shape())
	for i, v := range x.Data() {
		if d.rng.Float32() >= d.P {
			out.Data()[i] = v * scale
		}
	}
	return out
}

// Parameters returns an empty slice; dropout has no trainable state.
func (d *Dropout) Parameters() []*Parameter {
	return nil
}
