package tensor

import (
	"fmt"
	"strings"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 5, 64} is a 3D tensor with dimensions 2×5×64.
type Shape []int

// NumElements returns the total number of elements for this shape.
// The empty shape (a scalar) has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i, dim := range s {
		if dim != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// String returns a human-readable representation, e.g. "[2, 5, 64]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = fmt.Sprintf("%d", dim)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// strides returns the row-major strides for the shape.
func (s Shape) strides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// broadcastShapes computes the broadcast result shape of two shapes using
// numpy-style rules: shapes are right-aligned and each pair of dimensions
// must be equal or one of them must be 1.
//
// Panics if the shapes are not broadcast-compatible.
func broadcastShapes(a, b Shape) Shape {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Shape, n)
	for i := 1; i <= n; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}
		switch {
		case da == db:
			out[n-i] = da
		case da == 1:
			out[n-i] = db
		case db == 1:
			out[n-i] = da
		default:
			panic(fmt.Sprintf("tensor: shapes %v and %v are not broadcast-compatible", a, b))
		}
	}
	return out
}
