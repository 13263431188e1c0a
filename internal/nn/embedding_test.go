package nn

import (
	"math/rand"
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

// TestEmbedding_Lookup tests that Forward copies the right table rows.
func TestEmbedding_Lookup(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	emb := NewEmbedding(4, 3, rng)

	ids := tensor.MustFromSlice([]int32{0, 2, 3, 1}, tensor.Shape{2, 2})
	out := emb.Forward(ids)

	if !out.Shape().Equal(tensor.Shape{2, 2, 3}) {
		t.Fatalf("output shape = %v, expected [2 2 3]", out.Shape())
	}

	weights := emb.Weight.Tensor().Data()
	for pos, id := range []int32{0, 2, 3, 1} {
		for d := 0; d < 3; d++ {
			got := out.Data()[pos*3+d]
			exp := weights[int(id)*3+d]
			if got != exp {
				t.Errorf("position %d dim %d: got %v, expected row %d value %v", pos, d, got, id, exp)
			}
		}
	}
}

// TestEmbedding_OutOfRange tests that a bad token id panics rather than
// being clamped.
func TestEmbedding_OutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	emb := NewEmbedding(10, 4, rng)

	mustPanic(t, "id == vocab size", func() {
		emb.Forward(tensor.MustFromSlice([]int32{0, 10}, tensor.Shape{1, 2}))
	})
	mustPanic(t, "negative id", func() {
		emb.Forward(tensor.MustFromSlice([]int32{-1}, tensor.Shape{1, 1}))
	})
}

// TestEmbedding_InvalidInput tests shape and construction preconditions.
func TestEmbedding_InvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	emb := NewEmbedding(10, 4, rng)

	mustPanic(t, "1D ids", func() {
		emb.Forward(tensor.MustFromSlice([]int32{1, 2}, tensor.Shape{2}))
	})
	mustPanic(t, "zero vocab", func() { NewEmbedding(0, 4, rng) })
	mustPanic(t, "zero dim", func() { NewEmbedding(4, 0, rng) })
}

// TestEmbedding_Parameters tests that the table is exposed as one parameter.
func TestEmbedding_Parameters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	emb := NewEmbedding(10, 4, rng)

	params := emb.Parameters()
	if len(params) != 1 {
		t.Fatalf("got %d parameters, expected 1", len(params))
	}
	if !params[0].Tensor().Shape().Equal(tensor.Shape{10, 4}) {
		t.Errorf("table shape = %v, expected [10 4]", params[0].Tensor().Shape())
	}
}
