package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// MatMul computes the 2D matrix product t @ other.
//
// Shapes: [m, k] @ [k, n] -> [m, n]. Only float32 tensors are supported;
// the multiply runs on gonum's single-precision GEMM.
func (t *Tensor[T]) MatMul(other *Tensor[T]) *Tensor[T] {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		panic(fmt.Sprintf("tensor: MatMul expects 2D operands, got %v and %v", t.shape, other.shape))
	}
	m, k := t.shape[0], t.shape[1]
	k2, n := other.shape[0], other.shape[1]
	if k != k2 {
		panic(fmt.Sprintf("tensor: MatMul inner dimensions mismatch: %v @ %v", t.shape, other.shape))
	}

	a := asFloat32(t.data, "MatMul")
	b := asFloat32(other.data, "MatMul")
	out := make([]float32, m*n)
	gemm(m, n, k, a, b, out)

	return &Tensor[T]{data: fromFloat32[T](out), shape: Shape{m, n}}
}

// BatchMatMul computes a batched matrix product over the last two axes.
//
// Shapes: [batch, heads, m, k] @ [batch, heads, k, n] -> [batch, heads, m, n].
// Each (batch, head) pair is an independent GEMM; this is how all heads of an
// attention layer are multiplied in one call.
func (t *Tensor[T]) BatchMatMul(other *Tensor[T]) *Tensor[T] {
	if len(t.shape) != 4 || len(other.shape) != 4 {
		panic(fmt.Sprintf("tensor: BatchMatMul expects 4D operands, got %v and %v", t.shape, other.shape))
	}
	if t.shape[0] != other.shape[0] || t.shape[1] != other.shape[1] {
		panic(fmt.Sprintf("tensor: BatchMatMul batch dimensions mismatch: %v @ %v", t.shape, other.shape))
	}
	batch, heads := t.shape[0], t.shape[1]
	m, k := t.shape[2], t.shape[3]
	k2, n := other.shape[2], other.shape[3]
	if k != k2 {
		panic(fmt.Sprintf("tensor: BatchMatMul inner dimensions mismatch: %v @ %v", t.shape, other.shape))
	}

	a := asFloat32(t.data, "BatchMatMul")
	b := asFloat32(other.data, "BatchMatMul")
	out := make([]float32, batch*heads*m*n)
	for i := 0; i < batch*heads; i++ {
		gemm(m, n, k, a[i*m*k:(i+1)*m*k], b[i*k*n:(i+1)*k*n], out[i*m*n:(i+1)*m*n])
	}

	return &Tensor[T]{data: fromFloat32[T](out), shape: Shape{batch, heads, m, n}}
}

// gemm runs out = a @ b for row-major contiguous float32 matrices.
func gemm(m, n, k int, a, b, out []float32) {
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: out})
}

func asFloat32[T DType](data []T, op string) []float32 {
	f, ok := any(data).([]float32)
	if !ok {
		panic("tensor: " + op + " supports only float32 tensors")
	}
	return f
}

func fromFloat32[T DType](data []float32) []T {
	return any(data).([]T)
}
