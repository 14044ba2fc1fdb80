package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docdex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_ProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Given a created project
	p, err := s.CreateProject(ctx, "docs", "product documentation")
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	assert.Equal(t, "docs", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	// When fetched by ID and by name
	byID, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, byID.Name)

	byName, err := s.GetProjectByName(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	// Then it appears in the listing
	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	// And deleting removes it
	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_DuplicateProjectName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateProject(ctx, "docs", "")
	require.NoError(t, err)

	_, err = s.CreateProject(ctx, "docs", "")
	assert.Error(t, err)
}

func TestSQLiteStore_DeleteMissingProject(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteProject(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_DocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.CreateProject(ctx, "docs", "")
	require.NoError(t, err)

	d, err := s.CreateDocument(ctx, p.ID, "guide.md", "/data/uploads/1/guide.md")
	require.NoError(t, err)
	assert.Equal(t, p.ID, d.ProjectID)
	assert.Equal(t, "guide.md", d.Filename)

	docs, err := s.ListDocuments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	require.NoError(t, s.DeleteDocument(ctx, d.ID))
	_, err = s.GetDocument(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ChunkOrderingAndJoin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.CreateProject(ctx, "docs", "")
	require.NoError(t, err)

	// Given two documents with chunks saved out of creation order
	d1, err := s.CreateDocument(ctx, p.ID, "first.txt", "/x/first.txt")
	require.NoError(t, err)
	d2, err := s.CreateDocument(ctx, p.ID, "second.txt", "/x/second.txt")
	require.NoError(t, err)

	require.NoError(t, s.SaveChunks(ctx, d2.ID, []string{"second-0"}))
	require.NoError(t, s.SaveChunks(ctx, d1.ID, []string{"first-0", "first-1"}))

	// When listing the project's chunks
	chunks, err := s.ListChunks(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// Then ordering is by document then chunk position, with filenames resolved
	assert.Equal(t, "first-0", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, "first.txt", chunks[0].Filename)
	assert.Equal(t, "first-1", chunks[1].Text)
	assert.Equal(t, 1, chunks[1].Index)
	assert.Equal(t, "second-0", chunks[2].Text)
	assert.Equal(t, "second.txt", chunks[2].Filename)

	n, err := s.CountChunks(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteStore_SaveChunksReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.CreateProject(ctx, "docs", "")
	require.NoError(t, err)
	d, err := s.CreateDocument(ctx, p.ID, "a.txt", "/x/a.txt")
	require.NoError(t, err)

	require.NoError(t, s.SaveChunks(ctx, d.ID, []string{"old-0", "old-1", "old-2"}))
	require.NoError(t, s.SaveChunks(ctx, d.ID, []string{"new-0"}))

	chunks, err := s.ListChunks(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "new-0", chunks[0].Text)
}

func TestSQLiteStore_CascadeDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.CreateProject(ctx, "docs", "")
	require.NoError(t, err)
	d, err := s.CreateDocument(ctx, p.ID, "a.txt", "/x/a.txt")
	require.NoError(t, err)
	require.NoError(t, s.SaveChunks(ctx, d.ID, []string{"c0", "c1"}))

	// Deleting the project cascades through documents to chunks
	require.NoError(t, s.DeleteProject(ctx, p.ID))

	chunks, err := s.ListChunks(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
