// Package embed generates vector embeddings for chunk and query text.
package embed

import (
	"context"
	"time"
)

// Default client settings.
const (
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 30 * time.Second

	// DefaultCacheSize is the number of embeddings the LRU cache keeps.
	// At 1536 dimensions * 4 bytes * 1000 entries, roughly 6MB.
	DefaultCacheSize = 1000

	// DefaultAPIVersion is the X-GitHub-Api-Version header value.
	DefaultAPIVersion = "2022-11-28"
)

// Embedder generates vector embeddings for text.
//
// EmbedBatch returns one vector per input, in input order. An empty
// input returns an empty output without any external call. Vectors
// are returned as the provider produced them; unit normalization is
// the index store's responsibility.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one
	// provider call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the model identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}
