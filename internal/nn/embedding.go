package nn

import (
	"fmt"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Embedding is a lookup table mapping token ids to dense vectors.
//
// Architecture:
//   - Weight: [NumEmbed, EmbedDim] learnable parameter
//   - Forward: ids [batch, seq] -> embeddings [batch, seq, EmbedDim]
//
// The table is owned by the stack that created it and is mutated only by an
// external training driver, never by the forward logic.
type Embedding struct {
	Weight   *Parameter // [NumEmbed, EmbedDim]
	NumEmbed int        // vocabulary size
	EmbedDim int        // embedding dimension
}

// NewEmbedding creates an Embedding layer with weights drawn from N(0, 1).
func NewEmbedding(numEmbeddings, embeddingDim int, rng *rand.Rand) *Embedding {
	if numEmbeddings <= 0 || embeddingDim <= 0 {
		panic(fmt.Sprintf("Embedding: dimensions must be positive, got %d x %d", numEmbeddings, embeddingDim))
	}
	weight := tensor.Randn(tensor.Shape{numEmbeddings, embeddingDim}, rng)
	return &Embedding{
		Weight:   NewParameter("embedding.weight", weight),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
	}
}

// Forward performs the embedding lookup.
//
// Parameters:
//   - ids: token id tensor [batch, seq] of type int32
//
// Returns embeddings with shape [batch, seq, EmbedDim].
//
// Panics with a range error if any id falls outside [0, NumEmbed); a bad id
// indicates a data-pipeline defect upstream and is never clamped or wrapped.
func (e *Embedding) Forward(ids *tensor.Tensor[int32]) *tensor.Tensor[float32] {
	shape := ids.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Embedding.Forward: expected 2D ids [batch, seq], got shape %v", shape))
	}
	batch, seq := shape[0], shape[1]

	weights := e.Weight.Tensor().Data()
	out := tensor.Zeros[float32](tensor.Shape{batch, seq, e.EmbedDim})
	outData := out.Data()

	for i, id := range ids.Data() {
		if id < 0 || int(id) >= e.NumEmbed {
			panic(fmt.Sprintf("Embedding.Forward: token id %d out of range [0, %d)", id, e.NumEmbed))
		}
		copy(outData[i*e.EmbedDim:(i+1)*e.EmbedDim], weights[int(id)*e.EmbedDim:(int(id)+1)*e.EmbedDim])
	}
	return out
}

// Parameters returns the embedding table parameter.
func (e *Embedding) Parameters() []*Parameter {
	return []*Parameter{e.Weight}
}
