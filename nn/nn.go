// Copyright 2025 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for Loom's neural network modules:
// projections, embeddings, normalization, dropout, the masked multi-head
// attention engine, and the encoder/decoder blocks built from them.
package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module = nn.Module

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor[float32]) *Parameter {
	return nn.NewParameter(name, t)
}

// Layers

// Linear is a fully connected layer computing y = x @ W.T + b.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, rng)
}

// Embedding maps token ids to dense vectors.
type Embedding = nn.Embedding

// NewEmbedding creates an embedding table with N(0, 1) initialization.
func NewEmbedding(numEmbeddings, embeddingDim int, rng *rand.Rand) *Embedding {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, rng)
}

// LayerNorm normalizes along the feature dimension.
type LayerNorm = nn.LayerNorm

// NewLayerNorm creates a LayerNorm over the given feature dimension.
func NewLayerNorm(features int, epsilon float32) *LayerNorm {
	return nn.NewLayerNorm(features, epsilon)
}

// Dropout zeroes elements with probability P during training.
type Dropout = nn.Dropout

// NewDropout creates a dropout layer.
func NewDropout(p float32, rng *rand.Rand) *Dropout {
	return nn.NewDropout(p, rng)
}

// GELU is the Gaussian Error Linear Unit activation.
type GELU = nn.GELU

// NewGELU creates a GELU activation.
func NewGELU() *GELU {
	return nn.NewGELU()
}

// FFN is the position-wise feed-forward sublayer.
type FFN = nn.FFN

// NewFFN creates a feed-forward sublayer.
func NewFFN(embedDim, ffnDim int, dropout float32, rng *rand.Rand) *FFN {
	return nn.NewFFN(embedDim, ffnDim, dropout, rng)
}

// PositionalEncoding adds a fixed sinusoidal position signal.
type PositionalEncoding = nn.PositionalEncoding

// NewPositionalEncoding precomputes the sinusoidal table up to maxLen.
func NewPositionalEncoding(maxLen, dim int, dropout float32, rng *rand.Rand) *PositionalEncoding {
	return nn.NewPositionalEncoding(maxLen, dim, dropout, rng)
}

// Attention

// MultiHeadAttention is the masked multi-head attention engine, used for
// self-attention, causal self-attention and cross-attention alike.
type MultiHeadAttention = nn.MultiHeadAttention

// NewMultiHeadAttention creates a multi-head attention engine.
func NewMultiHeadAttention(embedDim, numHeads, maxLen int, causal bool, rng *rand.Rand) *MultiHeadAttention {
	return nn.NewMultiHeadAttention(embedDim, numHeads, maxLen, causal, rng)
}

// ScaledDotProductAttention computes softmax(QK^T / sqrt(d_k)) * V over
// pre-split heads with an optional additive mask.
func ScaledDotProductAttention(
	query, key, value *tensor.Tensor[float32],
	mask *tensor.Tensor[float32],
) (*tensor.Tensor[float32], *tensor.Tensor[float32]) {
	return nn.ScaledDotProductAttention(query, key, value, mask)
}

// CausalMask is a precomputed lower-triangular attention constraint.
type CausalMask = nn.CausalMask

// NewCausalMask precomputes the triangular table up to maxLen.
func NewCausalMask(maxLen int) *CausalMask {
	return nn.NewCausalMask(maxLen)
}

// PaddingMask converts a 0/1 validity mask into an additive attention mask.
func PaddingMask(mask *tensor.Tensor[float32]) *tensor.Tensor[float32] {
	return nn.PaddingMask(mask)
}

// Blocks

// EncoderBlock composes self-attention and feed-forward with residuals.
type EncoderBlock = nn.EncoderBlock

// NewEncoderBlock creates an encoder block.
func NewEncoderBlock(embedDim, numHeads, ffnDim, maxLen int, dropout float32, rng *rand.Rand) *EncoderBlock {
	return nn.NewEncoderBlock(embedDim, numHeads, ffnDim, maxLen, dropout, rng)
}

// DecoderBlock composes causal self-attention, optional cross-attention and
// feed-forward with residuals.
type DecoderBlock = nn.DecoderBlock

// NewDecoderBlock creates a decoder block.
func NewDecoderBlock(embedDim, numHeads, ffnDim, maxLen int, dropout float32, crossAttend bool, rng *rand.Rand) *DecoderBlock {
	return nn.NewDecoderBlock(embedDim, numHeads, ffnDim, maxLen, dropout, crossAttend, rng)
}
