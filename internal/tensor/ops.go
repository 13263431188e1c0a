package tensor

import (
	"fmt"
	"math"
)

// Add returns the element-wise sum of two tensors with broadcasting.
func (t *Tensor[T]) Add(other *Tensor[T]) *Tensor[T] {
	return binaryOp(t, other, func(a, b T) T { return a + b })
}

// Sub returns the element-wise difference of two tensors with broadcasting.
func (t *Tensor[T]) Sub(other *Tensor[T]) *Tensor[T] {
	return binaryOp(t, other, func(a, b T) T { return a - b })
}

// Mul returns the element-wise product of two tensors with broadcasting.
func (t *Tensor[T]) Mul(other *Tensor[T]) *Tensor[T] {
	return binaryOp(t, other, func(a, b T) T { return a * b })
}

// AddScalar returns a new tensor with scalar added to every element.
func (t *Tensor[T]) AddScalar(scalar T) *Tensor[T] {
	out := t.Clone()
	for i := range out.data {
		out.data[i] += scalar
	}
	return out
}

// MulScalar returns a new tensor with every element multiplied by scalar.
func (t *Tensor[T]) MulScalar(scalar T) *Tensor[T] {
	out := t.Clone()
	for i := range out.data {
		out.data[i] *= scalar
	}
	return out
}

// Reshape returns a view of the tensor with a new shape.
// The underlying buffer is shared; the element count must be unchanged.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3, 4})
//	y := x.Reshape(6, 4)
func (t *Tensor[T]) Reshape(dims ...int) *Tensor[T] {
	newShape := Shape(dims)
	if newShape.NumElements() != len(t.data) {
		panic(fmt.Sprintf("tensor: cannot reshape %v into %v", t.shape, newShape))
	}
	return &Tensor[T]{data: t.data, shape: newShape.Clone()}
}

// Transpose permutes the tensor's dimensions and returns a copy.
// perm must name each axis exactly once, e.g. Transpose(0, 2, 1, 3)
// swaps the middle axes of a 4D tensor.
func (t *Tensor[T]) Transpose(perm ...int) *Tensor[T] {
	rank := len(t.shape)
	if len(perm) != rank {
		panic(fmt.Sprintf("tensor: Transpose needs %d axes, got %d", rank, len(perm)))
	}
	seen := make([]bool, rank)
	outShape := make(Shape, rank)
	for i, p := range perm {
		if p < 0 || p >= rank || seen[p] {
			panic(fmt.Sprintf("tensor: invalid permutation %v for rank %d", perm, rank))
		}
		seen[p] = true
		outShape[i] = t.shape[p]
	}

	inStrides := t.shape.strides()
	outStrides := outShape.strides()
	out := Zeros[T](outShape)
	idx := make([]int, rank)
	for flat := range t.data {
		// Decompose flat index into input coordinates.
		rem := flat
		for d := 0; d < rank; d++ {
			idx[d] = rem / inStrides[d]
			rem %= inStrides[d]
		}
		outFlat := 0
		for d := 0; d < rank; d++ {
			outFlat += idx[perm[d]] * outStrides[d]
		}
		out.data[outFlat] = t.data[flat]
	}
	return out
}

// Softmax normalizes the tensor along its last dimension so each row is a
// probability distribution. dim must be -1 or the last axis.
//
// A row whose entries are all -Inf has no valid probability mass; such rows
// are produced by fully masked attention queries, and Softmax defines their
// output as all zeros instead of NaN.
func (t *Tensor[T]) Softmax(dim int) *Tensor[T] {
	rank := len(t.shape)
	if dim != -1 && dim != rank-1 {
		panic(fmt.Sprintf("tensor: Softmax supports only the last dimension, got %d for rank %d", dim, rank))
	}
	rowLen := t.shape[rank-1]
	out := Zeros[T](t.shape)
	for start := 0; start < len(t.data); start += rowLen {
		row := t.data[start : start+rowLen]
		maxVal := math.Inf(-1)
		for _, v := range row {
			if float64(v) > maxVal {
				maxVal = float64(v)
			}
		}
		if math.IsInf(maxVal, -1) {
			// Fully masked row: leave it at zero.
			continue
		}
		sum := 0.0
		exp := make([]float64, rowLen)
		for i, v := range row {
			exp[i] = math.Exp(float64(v) - maxVal)
			sum += exp[i]
		}
		for i := range row {
			out.data[start+i] = T(exp[i] / sum)
		}
	}
	return out
}

// MeanDim computes the mean along the last dimension. dim must be -1 or the
// last axis. With keepDim the reduced axis is kept with size 1, so the result
// broadcasts against the input.
func (t *Tensor[T]) MeanDim(dim int, keepDim bool) *Tensor[T] {
	rank := len(t.shape)
	if dim != -1 && dim != rank-1 {
		panic(fmt.Sprintf("tensor: MeanDim supports only the last dimension, got %d for rank %d", dim, rank))
	}
	rowLen := t.shape[rank-1]
	outShape := t.shape[:rank-1].Clone()
	if keepDim {
		outShape = append(outShape, 1)
	}
	out := Zeros[T](outShape)
	for r := 0; r < len(t.data)/rowLen; r++ {
		sum := 0.0
		for _, v := range t.data[r*rowLen : (r+1)*rowLen] {
			sum += float64(v)
		}
		out.data[r] = T(sum / float64(rowLen))
	}
	return out
}

// Argmax returns the index of the maximum element along the last dimension.
// dim must be -1 or the last axis. Ties resolve to the lowest index.
func (t *Tensor[T]) Argmax(dim int) *Tensor[int32] {
	rank := len(t.shape)
	if dim != -1 && dim != rank-1 {
		panic(fmt.Sprintf("tensor: Argmax supports only the last dimension, got %d for rank %d", dim, rank))
	}
	rowLen := t.shape[rank-1]
	out := Zeros[int32](t.shape[:rank-1].Clone())
	for r := 0; r < len(t.data)/rowLen; r++ {
		row := t.data[r*rowLen : (r+1)*rowLen]
		best := 0
		for i, v := range row {
			if v > row[best] {
				best = i
			}
		}
		out.data[r] = int32(best)
	}
	return out
}

// binaryOp applies op element-wise over the broadcast of a and b.
func binaryOp[T DType](a, b *Tensor[T], op func(x, y T) T) *Tensor[T] {
	if a.shape.Equal(b.shape) {
		out := Zeros[T](a.shape)
		for i := range a.data {
			out.data[i] = op(a.data[i], b.data[i])
		}
		return out
	}

	outShape := broadcastShapes(a.shape, b.shape)
	out := Zeros[T](outShape)
	aStrides := broadcastStrides(a.shape, outShape)
	bStrides := broadcastStrides(b.shape, outShape)
	outStrides := outShape.strides()

	rank := len(outShape)
	for flat := range out.data {
		rem := flat
		aOff, bOff := 0, 0
		for d := 0; d < rank; d++ {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			aOff += idx * aStrides[d]
			bOff += idx * bStrides[d]
		}
		out.data[flat] = op(a.data[aOff], b.data[bOff])
	}
	return out
}

// broadcastStrides returns per-axis strides for reading a tensor of shape s
// as if it had the (broadcast) shape out: missing and size-1 axes get
// stride 0 so the same element is reused across the broadcast dimension.
func broadcastStrides(s, out Shape) []int {
	strides := make([]int, len(out))
	sStrides := s.strides()
	offset := len(out) - len(s)
	for i := range out {
		if i < offset {
			strides[i] = 0
			continue
		}
		if s[i-offset] == 1 && out[i] != 1 {
			strides[i] = 0
		} else {
			strides[i] = sStrides[i-offset]
		}
	}
	return strides
}
