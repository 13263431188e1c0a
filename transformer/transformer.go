// Copyright 2025 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package transformer provides the public API for Loom's encoder and
// decoder stacks.
//
// Example (decoder-only language model):
//
//	config := transformer.Config{
//	    VocabSize: 1000, MaxLen: 128,
//	    ModelDim: 64, NumHeads: 4, HeadDim: 16,
//	    NumLayers: 2, Dropout: 0.1, Seed: 42,
//	}
//	decoder := transformer.NewDecoder(config)
//	logits := decoder.Forward(ids, mask, false) // [batch, seq, vocab]
package transformer

import (
	"github.com/loom-ml/loom/internal/transformer"
)

// Config defines the construction parameters for a stack.
type Config = transformer.Config

// Encoder is a stack of bidirectional transformer blocks.
type Encoder = transformer.Encoder

// NewEncoder creates an encoder stack.
func NewEncoder(config Config) *Encoder {
	return transformer.NewEncoder(config)
}

// Decoder is a stack of causal transformer blocks projecting to logits.
type Decoder = transformer.Decoder

// NewDecoder creates a decoder-only (language model) stack.
func NewDecoder(config Config) *Decoder {
	return transformer.NewDecoder(config)
}

// NewSeq2SeqDecoder creates a decoder stack that cross-attends to an
// encoder output.
func NewSeq2SeqDecoder(config Config) *Decoder {
	return transformer.NewSeq2SeqDecoder(config)
}
