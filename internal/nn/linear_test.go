package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

// mustPanic runs fn and fails the test unless it panics.
func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic, got none", name)
		}
	}()
	fn()
}

// TestLinear_Forward tests the affine transformation with known weights.
func TestLinear_Forward(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layer := NewLinear(2, 3, rng)

	// Overwrite the Xavier init with known values.
	// W = [[1, 0], [0, 1], [1, 1]], b = [0, 0, 1]
	copy(layer.weight.Tensor().Data(), []float32{1, 0, 0, 1, 1, 1})
	copy(layer.bias.Tensor().Data(), []float32{0, 0, 1})

	// x = [[1, 2], [3, 4]]
	x := tensor.MustFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := layer.Forward(x)

	// y = x @ W.T + b = [[1, 2, 4], [3, 4, 8]]
	expected := []float32{1, 2, 4, 3, 4, 8}
	for i, exp := range expected {
		if got := y.Data()[i]; got != exp {
			t.Errorf("element %d: got %v, expected %v", i, got, exp)
		}
	}

	if !y.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("output shape = %v, expected [2 3]", y.Shape())
	}
}

// TestLinear_Shapes tests shape propagation for a larger layer.
func TestLinear_Shapes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layer := NewLinear(64, 128, rng)

	if layer.InFeatures() != 64 || layer.OutFeatures() != 128 {
		t.Errorf("features = (%d, %d), expected (64, 128)", layer.InFeatures(), layer.OutFeatures())
	}

	x := tensor.Zeros[float32](tensor.Shape{5, 64})
	y := layer.Forward(x)
	if !y.Shape().Equal(tensor.Shape{5, 128}) {
		t.Errorf("output shape = %v, expected [5 128]", y.Shape())
	}
}

// TestLinear_InvalidInput tests the forward precondition panics.
func TestLinear_InvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layer := NewLinear(4, 2, rng)

	mustPanic(t, "3D input", func() {
		layer.Forward(tensor.Zeros[float32](tensor.Shape{2, 3, 4}))
	})
	mustPanic(t, "feature mismatch", func() {
		layer.Forward(tensor.Zeros[float32](tensor.Shape{2, 5}))
	})
}

// TestLinear_InvalidConstruction tests that bad dimensions are rejected
// at construction.
func TestLinear_InvalidConstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	mustPanic(t, "zero inFeatures", func() { NewLinear(0, 4, rng) })
	mustPanic(t, "negative outFeatures", func() { NewLinear(4, -1, rng) })
}

// TestLinear_Parameters tests that weight and bias are exposed for an
// external training driver.
func TestLinear_Parameters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layer := NewLinear(3, 2, rng)

	params := layer.Parameters()
	if len(params) != 2 {
		t.Fatalf("got %d parameters, expected 2", len(params))
	}
	if params[0].Name() != "weight" || params[1].Name() != "bias" {
		t.Errorf("parameter names = (%q, %q), expected (weight, bias)", params[0].Name(), params[1].Name())
	}
}

// TestXavier_Bound tests that Xavier init stays within the Glorot bound.
func TestXavier_Bound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := Xavier(16, 32, tensor.Shape{32, 16}, rng)

	bound := float32(math.Sqrt(6.0 / 48.0))
	for i, v := range w.Data() {
		if v < -bound || v > bound {
			t.Fatalf("element %d = %v outside [-%v, %v]", i, v, bound, bound)
		}
	}
}

// TestXavier_Deterministic tests that the same seed gives the same weights.
func TestXavier_Deterministic(t *testing.T) {
	a := Xavier(8, 8, tensor.Shape{8, 8}, rand.New(rand.NewSource(3)))
	b := Xavier(8, 8, tensor.Shape{8, 8}, rand.New(rand.NewSource(3)))

	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("element %d differs: %v vs %v", i, a.Data()[i], b.Data()[i])
		}
	}
}
