// Package embedding provides text embedding providers and lazy initialization.
package embedding

import "context"

// Embedder produces vector embeddings for text.
// EmbedBatch is positional: result[i] is the embedding of texts[i], and
// len(result) == len(texts). For a fixed provider the output is deterministic.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelID() string
	Close() error
}
