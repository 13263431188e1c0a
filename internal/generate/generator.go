// Package generate implements greedy autoregressive decoding for Loom
// decoder stacks: the token-by-token loop that extends a sequence and its
// padding mask until a stop token or a step bound is reached.
package generate

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
	"github.com/loom-ml/loom/internal/transformer"
)

// Config bounds one generation run. The token ids are opaque constants
// supplied by the tokenizer collaborator.
type Config struct {
	// MaxTokens is the maximum number of tokens to generate. It is the
	// loop's only built-in recovery mechanism: a model that never emits
	// the stop token still terminates.
	MaxTokens int

	// StartToken seeds the decoder input sequence.
	StartToken int32

	// EndToken stops generation when produced.
	EndToken int32
}

// State is one step of a generation in progress: the decoder-input ids, the
// matching padding mask, and the step count. States are immutable; Next
// returns the extended successor, which keeps a single step trivially
// testable.
type State struct {
	IDs   []int32   // current decoder input, [StartToken, generated...]
	Mask  []float32 // all ones: generated tokens are never padding
	Steps int
}

// NewState creates the initial state: the start token followed by an
// optional prompt prefix, with an all-valid mask.
func NewState(start int32, prefix []int32) State {
	ids := append([]int32{start}, prefix...)
	mask := make([]float32, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return State{IDs: ids, Mask: mask}
}

// Next returns the successor state with id appended and the mask rebuilt as
// all-ones of the new length. The receiver is not modified.
func (s State) Next(id int32) State {
	ids := make([]int32, len(s.IDs)+1)
	copy(ids, s.IDs)
	ids[len(s.IDs)] = id

	mask := make([]float32, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return State{IDs: ids, Mask: mask, Steps: s.Steps + 1}
}

// Generator drives a decoder stack through greedy (argmax) decoding. Each
// step runs the full decoder over the entire sequence-so-far and picks the
// highest-scoring id at the last position; there is no sampling,
// temperature or beam search.
//
// Cost grows quadratically with the number of steps, since every step
// re-attends over the whole prefix.
type Generator struct {
	decoder *transformer.Decoder
	config  Config
}

// NewGenerator creates a generator for a decoder stack.
// Panics if MaxTokens is not positive.
func NewGenerator(decoder *transformer.Decoder, config Config) *Generator {
	if config.MaxTokens <= 0 {
		panic(fmt.Sprintf("generate: MaxTokens must be positive, got %d", config.MaxTokens))
	}
	return &Generator{decoder: decoder, config: config}
}

// Generate runs decoder-only (language model) generation from the start
// token plus an optional prompt prefix.
//
// Returns the generated ids excluding the initial start token (the prompt
// prefix and, when produced, the end token are included). The loop stops
// when the end token is produced or after MaxTokens steps.
//
// Panics if the generator's decoder was built for seq2seq use.
func (g *Generator) Generate(prefix []int32) []int32 {
	state := NewState(g.config.StartToken, prefix)
	for state.Steps < g.config.MaxTokens {
		next := g.step(state, nil, nil)
		state = state.Next(next)
		if next == g.config.EndToken {
			break
		}
	}
	return state.IDs[1:]
}

// GenerateWithEncoder runs encoder-conditioned generation. The encoder
// output and its mask are computed once by the caller and held constant for
// the whole run; only the decoder is re-evaluated per step.
//
// Shapes: encOut [1, seq_enc, ModelDim], encMask [1, seq_enc] or nil.
//
// Panics if the generator's decoder was built as a pure language model.
func (g *Generator) GenerateWithEncoder(encOut *tensor.Tensor[float32], encMask *tensor.Tensor[float32]) []int32 {
	state := NewState(g.config.StartToken, nil)
	for state.Steps < g.config.MaxTokens {
		next := g.step(state, encOut, encMask)
		state = state.Next(next)
		if next == g.config.EndToken {
			break
		}
	}
	return state.IDs[1:]
}

// step runs one decode transition: full forward over the sequence-so-far,
// greedy argmax at the last position. Pure with respect to state.
func (g *Generator) step(state State, encOut, encMask *tensor.Tensor[float32]) int32 {
	seq := len(state.IDs)
	ids := tensor.MustFromSlice(append([]int32(nil), state.IDs...), tensor.Shape{1, seq})
	mask := tensor.MustFromSlice(append([]float32(nil), state.Mask...), tensor.Shape{1, seq})

	var logits *tensor.Tensor[float32]
	if encOut != nil {
		logits = g.decoder.ForwardWithEncoder(encOut, ids, encMask, mask, false)
	} else {
		logits = g.decoder.Forward(ids, mask, false)
	}

	// Greedy argmax over the vocabulary at the last position.
	last := logits.Argmax(-1) // [1, seq]
	return last.At(0, seq-1)
}
