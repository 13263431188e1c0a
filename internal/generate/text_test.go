package generate

import (
	"errors"
	"strings"
	"testing"

	"github.com/loom-ml/loom/internal/transformer"
)

// letterTokenizer is a deterministic test double: each of the letters a..l
// maps to its alphabet index, so every id stays inside the 12-token test
// vocabulary.
type letterTokenizer struct {
	encodeErr error
	decodeErr error
}

func (l *letterTokenizer) Encode(text string) ([]int32, error) {
	if l.encodeErr != nil {
		return nil, l.encodeErr
	}
	ids := make([]int32, 0, len(text))
	for _, r := range text {
		ids = append(ids, int32(r-'a'))
	}
	return ids, nil
}

func (l *letterTokenizer) Decode(tokens []int32) (string, error) {
	if l.decodeErr != nil {
		return "", l.decodeErr
	}
	var b strings.Builder
	for _, id := range tokens {
		b.WriteRune(rune('a' + id))
	}
	return b.String(), nil
}

func (l *letterTokenizer) VocabSize() int  { return 12 }
func (l *letterTokenizer) BosToken() int32 { return -1 }
func (l *letterTokenizer) EosToken() int32 { return -1 }
func (l *letterTokenizer) PadToken() int32 { return -1 }

// TestTextGenerator_RoundTrip tests the encode, generate, decode pipeline.
func TestTextGenerator_RoundTrip(t *testing.T) {
	dec := transformer.NewDecoder(testDecoderConfig())
	gen := NewGenerator(dec, Config{MaxTokens: 3, StartToken: 1, EndToken: -1})
	tg := NewTextGenerator(gen, &letterTokenizer{})

	out, err := tg.Generate("abc")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Prompt (3 letters) plus exactly MaxTokens generated letters.
	if len(out) != 6 {
		t.Errorf("output %q has length %d, expected 6", out, len(out))
	}
	if !strings.HasPrefix(out, "abc") {
		t.Errorf("output %q should start with the prompt", out)
	}
}

// TestTextGenerator_StripsStopToken tests that the stop token is treated
// as a control id, not text.
func TestTextGenerator_StripsStopToken(t *testing.T) {
	config := testDecoderConfig()
	config.VocabSize = 1
	dec := transformer.NewDecoder(config)

	// The single-token vocabulary forces id 0, which is the stop token,
	// so generation halts immediately and decodes to the empty string.
	gen := NewGenerator(dec, Config{MaxTokens: 5, StartToken: 0, EndToken: 0})
	tg := NewTextGenerator(gen, &letterTokenizer{})

	out, err := tg.Generate("")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "" {
		t.Errorf("output = %q, expected the stop token to be stripped", out)
	}
}

// TestTextGenerator_TokenizerErrors tests error propagation from both
// tokenizer directions.
func TestTextGenerator_TokenizerErrors(t *testing.T) {
	dec := transformer.NewDecoder(testDecoderConfig())
	gen := NewGenerator(dec, Config{MaxTokens: 2, StartToken: 1, EndToken: -1})

	encodeErr := errors.New("bad prompt")
	tg := NewTextGenerator(gen, &letterTokenizer{encodeErr: encodeErr})
	if _, err := tg.Generate("abc"); !errors.Is(err, encodeErr) {
		t.Errorf("expected encode error to propagate, got %v", err)
	}

	decodeErr := errors.New("bad ids")
	tg = NewTextGenerator(gen, &letterTokenizer{decodeErr: decodeErr})
	if _, err := tg.Generate("abc"); !errors.Is(err, decodeErr) {
		t.Errorf("expected decode error to propagate, got %v", err)
	}
}
