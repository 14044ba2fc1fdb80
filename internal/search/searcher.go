// Package search answers similarity queries against per-project vector
// indexes.
package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/store"
)

const (
	// MinTopK and MaxTopK bound the requested result count.
	MinTopK = 1
	MaxTopK = 20
	// DefaultTopK is used when the caller does not ask for a count.
	DefaultTopK = 5
)

// Result is one search hit, carrying enough denormalized metadata to
// render without a metadata store lookup.
type Result struct {
	DocumentID int64   `json:"document_id"`
	Filename   string  `json:"filename"`
	ChunkID    int64   `json:"chunk_id"`
	ChunkIndex int     `json:"chunk_index"`
	Snippet    string  `json:"snippet"`
	Score      float32 `json:"score"`
}

// Searcher embeds a query and ranks a project's chunks by inner-product
// similarity.
type Searcher struct {
	embedder embed.Embedder
	indexes  *store.IndexStore
	logger   *slog.Logger
}

// NewSearcher creates a Searcher reading from the given index store.
func NewSearcher(embedder embed.Embedder, indexes *store.IndexStore, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{embedder: embedder, indexes: indexes, logger: logger}
}

// Search returns up to topK results for the query, best first. A topK
// outside [MinTopK, MaxTopK] is clamped. A project without an index
// yields an empty result set, not an error.
func (s *Searcher) Search(ctx context.Context, projectID int64, query string, topK int) ([]Result, error) {
	if topK < MinTopK {
		topK = MinTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	idx, ok, err := s.indexes.Read(projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Debug("search_no_index", slog.Int64("project_id", projectID))
		return []Result{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	matches := idx.Search(queryVec, topK)
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		entry, ok := idx.Entry(m.Slot)
		if !ok {
			// Stale slot with no mapping entry, skip it.
			continue
		}
		results = append(results, Result{
			DocumentID: entry.DocumentID,
			Filename:   entry.Filename,
			ChunkID:    entry.ChunkID,
			ChunkIndex: entry.ChunkIndex,
			Snippet:    entry.Snippet,
			Score:      m.Score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	s.logger.Debug("search_completed",
		slog.Int64("project_id", projectID),
		slog.Int("top_k", topK),
		slog.Int("results", len(results)))

	return results, nil
}
