package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

// TestGELU_KnownValues tests GELU against reference values of the tanh
// approximation.
func TestGELU_KnownValues(t *testing.T) {
	gelu := NewGELU()

	input := tensor.MustFromSlice([]float32{0, 1, -1, 2}, tensor.Shape{4})
	output := gelu.Forward(input)

	expected := []float32{0, 0.8412, -0.1588, 1.9546}
	for i, exp := range expected {
		if got := output.Data()[i]; math.Abs(float64(got-exp)) > 0.001 {
			t.Errorf("GELU(%v) = %v, expected %v", input.Data()[i], got, exp)
		}
	}
}

// TestGELU_Asymptotes tests the saturation behavior: identity for large
// positive inputs, zero for large negative inputs.
func TestGELU_Asymptotes(t *testing.T) {
	gelu := NewGELU()

	input := tensor.MustFromSlice([]float32{10, -10}, tensor.Shape{2})
	output := gelu.Forward(input)

	if got := output.Data()[0]; math.Abs(float64(got-10)) > 0.001 {
		t.Errorf("GELU(10) = %v, expected ~10", got)
	}
	if got := output.Data()[1]; math.Abs(float64(got)) > 0.001 {
		t.Errorf("GELU(-10) = %v, expected ~0", got)
	}
}

// TestGELU_PreservesShape tests element-wise application on a 3D tensor.
func TestGELU_PreservesShape(t *testing.T) {
	gelu := NewGELU()

	input := tensor.Zeros[float32](tensor.Shape{2, 3, 4})
	output := gelu.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 3, 4}) {
		t.Errorf("output shape = %v, expected [2 3 4]", output.Shape())
	}
	if len(gelu.Parameters()) != 0 {
		t.Errorf("GELU should have no parameters")
	}
}
