package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/store"
)

func newTestIndexer(t *testing.T) (*Indexer, *store.IndexStore) {
	t.Helper()
	indexes, err := store.NewIndexStore(filepath.Join(t.TempDir(), "indexes"))
	require.NoError(t, err)
	logger := slog.New(slog.DiscardHandler)
	return NewIndexer(embed.NewStaticEmbedder(), indexes, logger), indexes
}

func testChunks(texts ...string) []*store.Chunk {
	chunks := make([]*store.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &store.Chunk{
			ID:         int64(i + 1),
			ProjectID:  1,
			DocumentID: 1,
			Filename:   "doc.txt",
			Index:      i,
			Text:       text,
		}
	}
	return chunks
}

func TestIndexer_RebuildWritesIndex(t *testing.T) {
	ctx := context.Background()
	indexer, indexes := newTestIndexer(t)

	n, err := indexer.Rebuild(ctx, 1, testChunks("alpha bravo", "charlie delta", "echo foxtrot"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	idx, ok, err := indexes.Read(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, idx.Len())

	entry, ok := idx.Entry(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), entry.ChunkID)
	assert.Equal(t, "charlie delta", entry.Snippet)
}

func TestIndexer_EmptyChunkSetClears(t *testing.T) {
	ctx := context.Background()
	indexer, indexes := newTestIndexer(t)

	_, err := indexer.Rebuild(ctx, 1, testChunks("some text"))
	require.NoError(t, err)

	n, err := indexer.Rebuild(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, ok, err := indexes.Read(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexer_SnippetTruncation(t *testing.T) {
	ctx := context.Background()
	indexer, indexes := newTestIndexer(t)

	long := strings.Repeat("x", SnippetLength+100)
	_, err := indexer.Rebuild(ctx, 1, testChunks(long))
	require.NoError(t, err)

	idx, ok, err := indexes.Read(1)
	require.NoError(t, err)
	require.True(t, ok)

	entry, ok := idx.Entry(0)
	require.True(t, ok)
	assert.Len(t, entry.Snippet, SnippetLength)
}

func TestTruncateSnippet_RuneBoundary(t *testing.T) {
	// "é" is two bytes; a cut in the middle must back up.
	text := strings.Repeat("é", 10)
	got := truncateSnippet(text, 5)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 4, len(got))

	// Short text passes through untouched.
	assert.Equal(t, "abc", truncateSnippet("abc", 240))
}

func TestIndexer_FailureKeepsPreviousIndex(t *testing.T) {
	ctx := context.Background()
	indexes, err := store.NewIndexStore(filepath.Join(t.TempDir(), "indexes"))
	require.NoError(t, err)

	good := NewIndexer(embed.NewStaticEmbedder(), indexes, slog.New(slog.DiscardHandler))
	_, err = good.Rebuild(ctx, 1, testChunks("original content"))
	require.NoError(t, err)

	bad := NewIndexer(failingEmbedder{}, indexes, slog.New(slog.DiscardHandler))
	_, err = bad.Rebuild(ctx, 1, testChunks("replacement content"))
	require.Error(t, err)

	// The previous index is still readable and unchanged.
	idx, ok, err := indexes.Read(1)
	require.NoError(t, err)
	require.True(t, ok)
	entry, ok := idx.Entry(0)
	require.True(t, ok)
	assert.Equal(t, "original content", entry.Snippet)
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, assert.AnError
}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, assert.AnError
}

func (failingEmbedder) ModelName() string { return "failing" }
func (failingEmbedder) Close() error      { return nil }
