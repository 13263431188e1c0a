// Copyright 2025 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer provides the public API for Loom's tokenizer
// collaborator: the interface the generation loop depends on, and a
// tiktoken-backed implementation.
package tokenizer

import (
	"github.com/loom-ml/loom/internal/tokenizer"
)

// Tokenizer is the interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// TikToken wraps the pkoukk/tiktoken-go library.
type TikToken = tokenizer.TikToken

// NewTikToken creates a tokenizer for the given encoding
// ("cl100k_base" or "p50k_base").
func NewTikToken(encodingName string) (*TikToken, error) {
	return tokenizer.NewTikToken(encodingName)
}
