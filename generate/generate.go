// Copyright 2025 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package generate provides the public API for greedy autoregressive
// decoding over Loom decoder stacks.
//
// Example:
//
//	gen := generate.NewGenerator(decoder, generate.Config{
//	    MaxTokens:  64,
//	    StartToken: bos,
//	    EndToken:   eos,
//	})
//	ids := gen.Generate(nil)
package generate

import (
	"github.com/loom-ml/loom/internal/generate"
	"github.com/loom-ml/loom/internal/tokenizer"
	"github.com/loom-ml/loom/internal/transformer"
)

// Config bounds one generation run.
type Config = generate.Config

// State is one step of a generation in progress.
type State = generate.State

// NewState creates the initial state for a run.
func NewState(start int32, prefix []int32) State {
	return generate.NewState(start, prefix)
}

// Generator drives a decoder stack through greedy decoding.
type Generator = generate.Generator

// NewGenerator creates a generator for a decoder stack.
func NewGenerator(decoder *transformer.Decoder, config Config) *Generator {
	return generate.NewGenerator(decoder, config)
}

// TextGenerator composes a Generator with a tokenizer.
type TextGenerator = generate.TextGenerator

// NewTextGenerator creates a text-level wrapper around a Generator.
func NewTextGenerator(generator *Generator, tok tokenizer.Tokenizer) *TextGenerator {
	return generate.NewTextGenerator(generator, tok)
}
