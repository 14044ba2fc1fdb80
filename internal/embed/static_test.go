package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	e := NewStaticEmbedder()

	a, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, StaticDimensions)
}

func TestStaticEmbedder_DifferentTextsDiffer(t *testing.T) {
	ctx := context.Background()
	e := NewStaticEmbedder()

	a, err := e.Embed(ctx, "install the database driver")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "completely unrelated gardening notes")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStaticEmbedder_EmptyText(t *testing.T) {
	e := NewStaticEmbedder()

	vec, err := e.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, vec, StaticDimensions)
}

func TestStaticEmbedder_Batch(t *testing.T) {
	ctx := context.Background()
	e := NewStaticEmbedder()

	vectors, err := e.EmbedBatch(ctx, []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	single, err := e.Embed(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, single, vectors[0])
}
