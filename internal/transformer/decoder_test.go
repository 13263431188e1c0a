package transformer

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

// TestDecoder_LogitsShape tests the language-model pipeline end to end:
// ids [2, 5] through a vocab-100 model produce logits [2, 5, 100].
func TestDecoder_LogitsShape(t *testing.T) {
	dec := NewDecoder(validConfig())

	if dec.CrossAttends() {
		t.Fatalf("NewDecoder should build a language model")
	}

	ids := tensor.MustFromSlice([]int32{
		5, 12, 40, 7, 3,
		8, 99, 0, 1, 2,
	}, tensor.Shape{2, 5})

	logits := dec.Forward(ids, nil, false)

	if !logits.Shape().Equal(tensor.Shape{2, 5, 100}) {
		t.Fatalf("logits shape = %v, expected [2 5 100]", logits.Shape())
	}
	for i, v := range logits.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("logit %d = %v, expected finite", i, v)
		}
	}
}

// TestDecoder_Causality tests the core autoregressive property: logits at
// position i do not depend on tokens after position i.
func TestDecoder_Causality(t *testing.T) {
	dec := NewDecoder(validConfig())

	idsA := tensor.MustFromSlice([]int32{5, 6, 7, 8}, tensor.Shape{1, 4})
	idsB := tensor.MustFromSlice([]int32{5, 6, 7, 42}, tensor.Shape{1, 4})

	logitsA := dec.Forward(idsA, nil, false)
	logitsB := dec.Forward(idsB, nil, false)

	// Positions 0..2 share their prefix; their logits must agree exactly
	// since the causal mask gives the changed position zero weight.
	for pos := 0; pos < 3; pos++ {
		for v := 0; v < 100; v++ {
			if logitsA.At(0, pos, v) != logitsB.At(0, pos, v) {
				t.Fatalf("position %d vocab %d: logits depend on a later token", pos, v)
			}
		}
	}
}

// TestDecoder_Seq2Seq tests encoder-conditioned decoding with differing
// encoder and decoder lengths and a padded encoder batch.
func TestDecoder_Seq2Seq(t *testing.T) {
	config := validConfig()
	enc := NewEncoder(config)
	dec := NewSeq2SeqDecoder(config)

	if !dec.CrossAttends() {
		t.Fatalf("NewSeq2SeqDecoder should cross-attend")
	}

	// Encoder input: seq 6 with the last two positions padded.
	encIDs := tensor.MustFromSlice([]int32{4, 8, 15, 16, 0, 0}, tensor.Shape{1, 6})
	encMask := tensor.MustFromSlice([]float32{1, 1, 1, 1, 0, 0}, tensor.Shape{1, 6})
	encOut := enc.Forward(encIDs, encMask, false)

	decIDs := tensor.MustFromSlice([]int32{1, 23, 42}, tensor.Shape{1, 3})
	logits := dec.ForwardWithEncoder(encOut, decIDs, encMask, nil, false)

	if !logits.Shape().Equal(tensor.Shape{1, 3, 100}) {
		t.Fatalf("logits shape = %v, expected [1 3 100]", logits.Shape())
	}
	for i, v := range logits.Data() {
		if math.IsNaN(float64(v)) {
			t.Fatalf("logit %d is NaN", i)
		}
	}
}

// TestDecoder_ModeMismatch tests that the construction-time mode is
// enforced at every forward call.
func TestDecoder_ModeMismatch(t *testing.T) {
	config := validConfig()
	ids := tensor.MustFromSlice([]int32{1, 2}, tensor.Shape{1, 2})
	encOut := tensor.Zeros[float32](tensor.Shape{1, 3, 8})

	lm := NewDecoder(config)
	mustPanic(t, "language model via ForwardWithEncoder", func() {
		lm.ForwardWithEncoder(encOut, ids, nil, nil, false)
	})

	seq2seq := NewSeq2SeqDecoder(config)
	mustPanic(t, "seq2seq via Forward", func() {
		seq2seq.Forward(ids, nil, false)
	})
}

// TestDecoder_Deterministic tests reproducibility of the full stack.
func TestDecoder_Deterministic(t *testing.T) {
	config := validConfig()
	config.Seed = 7

	ids := tensor.MustFromSlice([]int32{3, 1, 4}, tensor.Shape{1, 3})

	a := NewDecoder(config).Forward(ids, nil, false)
	b := NewDecoder(config).Forward(ids, nil, false)

	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("element %d differs: %v vs %v", i, a.Data()[i], b.Data()[i])
		}
	}
}

// TestDecoder_Parameters tests seq2seq vs language-model parameter counts.
func TestDecoder_Parameters(t *testing.T) {
	config := validConfig()

	// embedding + 16 per LM block + norm pair + output weight/bias
	lm := NewDecoder(config)
	if got, exp := len(lm.Parameters()), 1+16+2+2; got != exp {
		t.Errorf("language model: got %d parameters, expected %d", got, exp)
	}

	// Seq2seq blocks add cross-attention (8) and its norm (2).
	seq2seq := NewSeq2SeqDecoder(config)
	if got, exp := len(seq2seq.Parameters()), 1+26+2+2; got != exp {
		t.Errorf("seq2seq: got %d parameters, expected %d", got, exp)
	}
}
