package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTokenizer loads an encoding, skipping the test when the BPE data
// cannot be fetched (tiktoken-go downloads it on first use).
func newTestTokenizer(t *testing.T, name string) *TikToken {
	t.Helper()
	tok, err := NewTikToken(name)
	if err != nil {
		t.Skipf("encoding %q unavailable: %v", name, err)
	}
	return tok
}

func TestTikToken_RoundTrip(t *testing.T) {
	tok := newTestTokenizer(t, "cl100k_base")

	ids, err := tok.Encode("hello world")
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestTikToken_ControlTokens(t *testing.T) {
	tok := newTestTokenizer(t, "cl100k_base")

	assert.Equal(t, 100256, tok.VocabSize())
	assert.Equal(t, int32(100257), tok.EosToken())
	assert.Equal(t, int32(-1), tok.BosToken())
	assert.Equal(t, int32(-1), tok.PadToken())
	assert.Equal(t, "cl100k_base", tok.Name())
}

func TestTikToken_UnknownEncoding(t *testing.T) {
	_, err := NewTikToken("no_such_encoding")
	assert.Error(t, err)
}
