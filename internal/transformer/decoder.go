package transformer

import (
	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Decoder is a stack of causal transformer blocks projecting to vocabulary
// logits.
//
// A decoder is built in one of two mutually exclusive modes:
//
//   - language-model mode (NewDecoder): causal self-attention only, driven
//     through Forward;
//   - seq2seq mode (NewSeq2SeqDecoder): every block additionally
//     cross-attends to a precomputed encoder output, driven through
//     ForwardWithEncoder.
//
// The modes are fixed at construction and not interchangeable at runtime;
// calling the wrong forward method panics.
type Decoder struct {
	Config     Config
	Embedding  *nn.Embedding
	Positional *nn.PositionalEncoding
	Blocks     []*nn.DecoderBlock
	Norm       *nn.LayerNorm
	Output     *nn.Linear // projection to [ModelDim -> VocabSize]

	crossAttend bool
}

// NewDecoder creates a decoder-only (language model) stack.
// Panics on an invalid config.
func NewDecoder(config Config) *Decoder {
	return newDecoder(config, false)
}

// NewSeq2SeqDecoder creates a decoder stack whose blocks cross-attend to an
// encoder output. Panics on an invalid config.
func NewSeq2SeqDecoder(config Config) *Decoder {
	return newDecoder(config, true)
}

func newDecoder(config Config, crossAttend bool) *Decoder {
	config.Validate()
	rng := newRNG(config.Seed)

	blocks := make([]*nn.DecoderBlock, config.NumLayers)
	for i := range blocks {
		blocks[i] = nn.NewDecoderBlock(config.ModelDim, config.NumHeads, config.FFNDim(), config.MaxLen, config.Dropout, crossAttend, rng)
	}

	return &Decoder{
		Config:      config,
		Embedding:   nn.NewEmbedding(config.VocabSize, config.ModelDim, rng),
		Positional:  nn.NewPositionalEncoding(config.MaxLen, config.ModelDim, config.Dropout, rng),
		Blocks:      blocks,
		Norm:        nn.NewLayerNorm(config.ModelDim, 1e-5),
		Output:      nn.NewLinear(config.ModelDim, config.VocabSize, rng),
		crossAttend: crossAttend,
	}
}

// CrossAttends reports whether this decoder was built for seq2seq use.
func (d *Decoder) CrossAttends() bool {
	return d.crossAttend
}

// Forward runs the language-model decoder.
//
// Parameters:
//   - ids: [batch, seq] token ids in [0, VocabSize)
//   - padMask: optional [batch, seq] validity mask, or nil
//   - train: enables dropout
//
// Returns unnormalized next-token logits [batch, seq, VocabSize]; callers
// apply softmax, argmax or cross-entropy as needed.
//
// Panics if this decoder was built for seq2seq use.
func (d *Decoder) Forward(ids *tensor.Tensor[int32], padMask *tensor.Tensor[float32], train bool) *tensor.Tensor[float32] {
	if d.crossAttend {
		panic("Decoder.Forward: decoder was built for seq2seq use, call ForwardWithEncoder")
	}
	x := d.embed(ids, train)
	for _, block := range d.Blocks {
		x = block.Forward(x, padMask, train)
	}
	return d.project(x)
}

// ForwardWithEncoder runs the seq2seq decoder against a precomputed encoder
// output.
//
// Parameters:
//   - encOut: [batch, seq_enc, ModelDim], the encoder's output; the encoder
//     is not recomputed here
//   - ids: [batch, seq_dec] decoder-input token ids
//   - encMask: optional [batch, seq_enc] encoder validity mask, or nil
//   - decMask: optional [batch, seq_dec] decoder validity mask, or nil
//   - train: enables dropout
//
// Returns logits [batch, seq_dec, VocabSize].
//
// Panics if this decoder was built as a pure language model.
func (d *Decoder) ForwardWithEncoder(
	encOut *tensor.Tensor[float32],
	ids *tensor.Tensor[int32],
	encMask, decMask *tensor.Tensor[float32],
	train bool,
) *tensor.Tensor[float32] {
	if !d.crossAttend {
		panic("Decoder.ForwardWithEncoder: decoder was built as a language model, call Forward")
	}
	x := d.embed(ids, train)
	for _, block := range d.Blocks {
		x = block.ForwardWithEncoder(x, encOut, encMask, decMask, train)
	}
	return d.project(x)
}

func (d *Decoder) embed(ids *tensor.Tensor[int32], train bool) *tensor.Tensor[float32] {
	x := d.Embedding.Forward(ids)
	return d.Positional.Forward(x, train)
}

func (d *Decoder) project(x *tensor.Tensor[float32]) *tensor.Tensor[float32] {
	x = d.Norm.Forward(x)
	shape := x.Shape()
	batch, seq := shape[0], shape[1]
	logits := d.Output.Forward(x.Reshape(batch*seq, d.Config.ModelDim))
	return logits.Reshape(batch, seq, d.Config.VocabSize)
}

// Parameters returns all trainable parameters of the stack.
func (d *Decoder) Parameters() []*nn.Parameter {
	params := d.Embedding.Parameters()
	for _, block := range d.Blocks {
		params = append(params, block.Parameters()...)
	}
	params = append(params, d.Norm.Parameters()...)
	return append(params, d.Output.Parameters()...)
}
