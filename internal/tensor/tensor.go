// Package tensor implements the dense tensor type the Loom model stack is
// built on: a flat, row-major buffer plus a Shape, with the element-wise,
// reshaping and matrix-multiply operations attention needs.
//
// Tensors are immutable through the operation API: every op allocates its
// result. Reshape is the one exception and returns a view sharing the
// underlying buffer.
package tensor

import (
	"fmt"
	"math/rand"
)

// DType is the constraint for tensor element types.
// Activations and weights are float32; token ids are int32.
type DType interface {
	~float32 | ~int32
}

// Tensor is a dense n-dimensional array of T stored in row-major order.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
//	y := tensor.Ones[float32](tensor.Shape{2, 3})
//	z := x.Add(y)
type Tensor[T DType] struct {
	data  []T
	shape Shape
}

// FromSlice creates a tensor that takes ownership of data.
// Returns an error if the slice length does not match the shape.
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, got %d", shape, shape.NumElements(), len(data))
	}
	return &Tensor[T]{data: data, shape: shape.Clone()}, nil
}

// MustFromSlice is FromSlice that panics on a length mismatch.
// Intended for literals in tests and model construction.
func MustFromSlice[T DType](data []T, shape Shape) *Tensor[T] {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic("tensor: " + err.Error())
	}
	return t
}

// Shape returns the tensor's shape. The returned slice must not be mutated.
func (t *Tensor[T]) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int {
	return len(t.data)
}

// Data returns the underlying buffer (zero-copy).
// Modifications to the returned slice modify the tensor.
func (t *Tensor[T]) Data() []T {
	return t.data
}

// At returns the element at the given indices.
// Panics if the number of indices or any index is out of bounds.
//
// Example:
//
//	t := tensor.Zeros[float32](tensor.Shape{3, 4})
//	v := t.At(1, 2) // row 1, column 2
func (t *Tensor[T]) At(indices ...int) T {
	return t.data[t.offset(indices)]
}

// Set stores value at the given indices.
// Panics if the number of indices or any index is out of bounds.
func (t *Tensor[T]) Set(value T, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor[T]) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: expected %d indices, got %d", len(t.shape), len(indices)))
	}
	strides := t.shape.strides()
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// Clone returns a deep copy of the tensor.
func (t *Tensor[T]) Clone() *Tensor[T] {
	data := make([]T, len(t.data))
	copy(data, t.data)
	return &Tensor[T]{data: data, shape: t.shape.Clone()}
}

// String returns a short human-readable description.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor%v (%d elements)", t.shape, len(t.data))
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape) *Tensor[T] {
	return &Tensor[T]{data: make([]T, shape.NumElements()), shape: shape.Clone()}
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) *Tensor[T] {
	return Full[T](shape, 1)
}

// Full creates a tensor filled with value.
func Full[T DType](shape Shape, value T) *Tensor[T] {
	data := make([]T, shape.NumElements())
	for i := range data {
		data[i] = value
	}
	return &Tensor[T]{data: data, shape: shape.Clone()}
}

// Randn creates a float32 tensor with elements drawn from N(0, 1).
//
// The random source is explicit so tests and model construction can be
// deterministic; pass rand.New(rand.NewSource(seed)).
func Randn(shape Shape, rng *rand.Rand) *Tensor[float32] {
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return &Tensor[float32]{data: data, shape: shape.Clone()}
}
