// Package index builds and maintains per-project vector indexes from
// stored chunk text.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/gofrs/flock"

	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/store"
)

// SnippetLength is the maximum snippet size, in bytes, stored per slot
// in the index mapping. Snippets are cut on rune boundaries.
const SnippetLength = 240

// Indexer rebuilds a project's vector index from its full chunk set.
// Every mutation is a full rebuild: embed all chunks in one batch and
// atomically replace the persisted index. Rebuilds for the same project
// are serialized in-process by a keyed mutex and across processes by an
// advisory file lock.
type Indexer struct {
	embedder embed.Embedder
	indexes  *store.IndexStore
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewIndexer creates an Indexer writing through the given index store.
func NewIndexer(embedder embed.Embedder, indexes *store.IndexStore, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder: embedder,
		indexes:  indexes,
		logger:   logger,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (ix *Indexer) projectLock(projectID int64) *sync.Mutex {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	l, ok := ix.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		ix.locks[projectID] = l
	}
	return l
}

// Rebuild replaces the project's index with one built from chunks and
// returns the number of vectors indexed. An empty chunk set clears the
// index. On failure the previously persisted index stays intact.
func (ix *Indexer) Rebuild(ctx context.Context, projectID int64, chunks []*store.Chunk) (int, error) {
	lock := ix.projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	fileLock := flock.New(ix.indexes.LockPath(projectID))
	if err := fileLock.Lock(); err != nil {
		return 0, fmt.Errorf("failed to acquire index lock: %w", err)
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			ix.logger.Warn("index_lock_release_failed",
				slog.Int64("project_id", projectID),
				slog.String("error", err.Error()))
		}
	}()

	if len(chunks) == 0 {
		if err := ix.indexes.Clear(projectID); err != nil {
			return 0, err
		}
		ix.logger.Info("index_cleared", slog.Int64("project_id", projectID))
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}

	entries := make([]store.MappingEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = store.MappingEntry{
			ChunkID:    c.ID,
			DocumentID: c.DocumentID,
			Filename:   c.Filename,
			ChunkIndex: c.Index,
			Snippet:    truncateSnippet(c.Text, SnippetLength),
		}
	}

	if err := ix.indexes.Write(projectID, vectors, entries); err != nil {
		return 0, err
	}

	ix.logger.Info("index_rebuilt",
		slog.Int64("project_id", projectID),
		slog.Int("vectors", len(vectors)),
		slog.String("model", ix.embedder.ModelName()))

	return len(vectors), nil
}

// truncateSnippet cuts text to at most maxBytes without splitting a rune.
func truncateSnippet(text string, maxBytes int) string {
	if len(text) <= maxBytes {
		return text
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
