// Package store provides the persistence layer for docdex: project and
// document metadata in SQLite, and per-project vector indexes on disk.
package store

import (
	"context"
	"time"
)

// Project is a named collection of documents with its own vector index.
type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// Document is an ingested file belonging to a project.
type Document struct {
	ID         int64
	ProjectID  int64
	Filename   string
	StoredPath string
	CreatedAt  time.Time
}

// Chunk is a contiguous slice of a document's extracted text.
// Index is the zero-based position of the chunk within its document.
type Chunk struct {
	ID         int64
	ProjectID  int64
	DocumentID int64
	Filename   string
	Index      int
	Text       string
}

// MetadataStore persists projects, documents, and chunk text.
// Vector data lives in IndexStore, keyed by the IDs assigned here.
type MetadataStore interface {
	CreateProject(ctx context.Context, name, description string) (*Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	GetProjectByName(ctx context.Context, name string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	DeleteProject(ctx context.Context, id int64) error

	CreateDocument(ctx context.Context, projectID int64, filename, storedPath string) (*Document, error)
	GetDocument(ctx context.Context, id int64) (*Document, error)
	ListDocuments(ctx context.Context, projectID int64) ([]*Document, error)
	DeleteDocument(ctx context.Context, id int64) error

	SaveChunks(ctx context.Context, documentID int64, texts []string) error
	// ListChunks returns every chunk in the project, ordered by document
	// then chunk position, with Filename resolved from the owning document.
	ListChunks(ctx context.Context, projectID int64) ([]*Chunk, error)
	CountChunks(ctx context.Context, projectID int64) (int, error)

	Close() error
}
