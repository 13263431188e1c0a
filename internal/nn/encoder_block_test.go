package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

// TestEncoderBlock_Shapes tests that a block preserves the representation
// shape, with and without a padding mask.
func TestEncoderBlock_Shapes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	block := NewEncoderBlock(8, 2, 32, 16, 0, rng)

	x := tensor.Randn(tensor.Shape{2, 5, 8}, rng)

	out := block.Forward(x, nil, false)
	if !out.Shape().Equal(tensor.Shape{2, 5, 8}) {
		t.Errorf("unmasked output shape = %v, expected [2 5 8]", out.Shape())
	}

	mask := tensor.MustFromSlice([]float32{
		1, 1, 1, 1, 1,
		1, 1, 1, 0, 0,
	}, tensor.Shape{2, 5})
	out = block.Forward(x, mask, false)
	if !out.Shape().Equal(tensor.Shape{2, 5, 8}) {
		t.Errorf("masked output shape = %v, expected [2 5 8]", out.Shape())
	}
	for i, v := range out.Data() {
		if math.IsNaN(float64(v)) {
			t.Fatalf("element %d is NaN", i)
		}
	}
}

// TestEncoderBlock_PaddingInvariance tests that the content of padded
// positions cannot leak into valid positions: attention is the only
// cross-position operation and the mask blocks it.
func TestEncoderBlock_PaddingInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	block := NewEncoderBlock(8, 2, 32, 16, 0, rng)

	x := tensor.Randn(tensor.Shape{1, 4, 8}, rng)
	mask := tensor.MustFromSlice([]float32{1, 1, 1, 0}, tensor.Shape{1, 4})

	a := block.Forward(x, mask, false)

	// Scramble the padded position and rerun.
	y := x.Clone()
	for d := 0; d < 8; d++ {
		y.Set(float32(100+d), 0, 3, d)
	}
	b := block.Forward(y, mask, false)

	for pos := 0; pos < 3; pos++ {
		for d := 0; d < 8; d++ {
			va := a.At(0, pos, d)
			vb := b.At(0, pos, d)
			if va != vb {
				t.Errorf("valid position %d dim %d changed with padded content: %v vs %v", pos, d, va, vb)
			}
		}
	}
}

// TestEncoderBlock_Parameters counts the trainable state: 4 projections +
// 2 FFN linears + 2 norms, each contributing 2 parameters.
func TestEncoderBlock_Parameters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	block := NewEncoderBlock(8, 2, 32, 16, 0.1, rng)

	if got := len(block.Parameters()); got != 16 {
		t.Errorf("got %d parameters, expected 16", got)
	}
}
