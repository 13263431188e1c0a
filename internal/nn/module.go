// Package nn implements the neural network modules the Loom transformer is
// assembled from: linear projections, embeddings, layer normalization,
// dropout, the masked multi-head attention engine, and the encoder/decoder
// blocks composing them.
//
// Design inspired by PyTorch's nn.Module but adapted for Go.
package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the base interface for neural network components.
//
// Every module exposes its trainable parameters; an external training driver
// owns the optimizer and loss and only needs Parameters() plus the module's
// forward method.
type Module interface {
	// Parameters returns all trainable parameters of this module,
	// including those of nested modules. Modules without trainable
	// state (activations, dropout) return an empty slice.
	Parameters() []*Parameter
}

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are the tensors a training driver updates between forward
// passes: weights, biases, embedding tables. The forward logic in this
// package only reads them.
type Parameter struct {
	name   string
	tensor *tensor.Tensor[float32]
}

// NewParameter creates a new trainable parameter.
//
// Parameters:
//   - name: descriptive name (e.g. "linear.weight")
//   - t: the initialized parameter tensor
func NewParameter(name string, t *tensor.Tensor[float32]) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor[float32] {
	return p.tensor
}
