// Copyright 2025 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for Loom's dense tensor type.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
//	y := tensor.Ones[float32](tensor.Shape{2, 3})
//	z := x.Add(y) // element-wise addition
package tensor

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DType is the constraint for tensor element types.
type DType = tensor.DType

// Tensor is a dense n-dimensional array stored in row-major order.
type Tensor[T DType] = tensor.Tensor[T]

// FromSlice creates a tensor that takes ownership of data.
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// MustFromSlice is FromSlice that panics on a length mismatch.
func MustFromSlice[T DType](data []T, shape Shape) *Tensor[T] {
	return tensor.MustFromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape) *Tensor[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) *Tensor[T] {
	return tensor.Ones[T](shape)
}

// Full creates a tensor filled with value.
func Full[T DType](shape Shape, value T) *Tensor[T] {
	return tensor.Full(shape, value)
}

// Randn creates a float32 tensor with elements drawn from N(0, 1).
func Randn(shape Shape, rng *rand.Rand) *Tensor[float32] {
	return tensor.Randn(shape, rng)
}
