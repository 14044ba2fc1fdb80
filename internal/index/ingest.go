package index

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/docdex/docdex/internal/chunk"
	apperrors "github.com/docdex/docdex/internal/errors"
	"github.com/docdex/docdex/internal/store"
)

// Ingestor handles the write side of the pipeline: take a file, store a
// copy, extract and chunk its text, persist metadata, and rebuild the
// project's index.
type Ingestor struct {
	meta       store.MetadataStore
	indexer    *Indexer
	uploadRoot string
	chunkSize  int
	overlap    int
	logger     *slog.Logger
}

// IngestorConfig carries the knobs for an Ingestor. Zero chunking values
// fall back to the chunker defaults.
type IngestorConfig struct {
	UploadRoot string
	ChunkSize  int
	Overlap    int
}

// NewIngestor creates an Ingestor storing uploads under cfg.UploadRoot.
func NewIngestor(meta store.MetadataStore, indexer *Indexer, cfg IngestorConfig, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		meta:       meta,
		indexer:    indexer,
		uploadRoot: cfg.UploadRoot,
		chunkSize:  cfg.ChunkSize,
		overlap:    cfg.Overlap,
		logger:     logger,
	}
}

// AddDocument ingests the file at srcPath into the project: the file is
// copied under the upload root, its text extracted and chunked, the
// document and chunks persisted, and the project index rebuilt.
// If the rebuild fails the document is still returned alongside the
// error, so the caller can reindex later.
func (g *Ingestor) AddDocument(ctx context.Context, projectID int64, srcPath string) (*store.Document, error) {
	if _, err := g.meta.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	filename := filepath.Base(srcPath)
	text, err := chunk.ExtractText(srcPath)
	if err != nil {
		return nil, err
	}

	storedPath, err := g.storeUpload(projectID, srcPath, filename)
	if err != nil {
		return nil, err
	}

	doc, err := g.meta.CreateDocument(ctx, projectID, filename, storedPath)
	if err != nil {
		_ = os.Remove(storedPath)
		return nil, err
	}

	texts := chunk.Split(text, g.chunkSize, g.overlap)
	if err := g.meta.SaveChunks(ctx, doc.ID, texts); err != nil {
		return nil, err
	}

	g.logger.Info("document_added",
		slog.Int64("project_id", projectID),
		slog.Int64("document_id", doc.ID),
		slog.String("filename", filename),
		slog.Int("chunks", len(texts)))

	if err := g.rebuild(ctx, projectID); err != nil {
		return doc, err
	}
	return doc, nil
}

// RemoveDocument deletes a document, its stored copy, and its chunks,
// then rebuilds the project's index from what remains.
func (g *Ingestor) RemoveDocument(ctx context.Context, documentID int64) error {
	doc, err := g.meta.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := g.meta.DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	if doc.StoredPath != "" {
		if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
			g.logger.Warn("upload_remove_failed",
				slog.String("path", doc.StoredPath),
				slog.String("error", err.Error()))
		}
	}

	g.logger.Info("document_removed",
		slog.Int64("project_id", doc.ProjectID),
		slog.Int64("document_id", documentID),
		slog.String("filename", doc.Filename))

	return g.rebuild(ctx, doc.ProjectID)
}

// DeleteProject removes a project with its documents, chunks, uploads,
// and vector index.
func (g *Ingestor) DeleteProject(ctx context.Context, projectID int64) error {
	if err := g.meta.DeleteProject(ctx, projectID); err != nil {
		return err
	}

	if err := g.indexer.indexes.Clear(projectID); err != nil {
		return err
	}

	uploadDir := filepath.Join(g.uploadRoot, strconv.FormatInt(projectID, 10))
	if err := os.RemoveAll(uploadDir); err != nil {
		g.logger.Warn("upload_dir_remove_failed",
			slog.String("path", uploadDir),
			slog.String("error", err.Error()))
	}

	g.logger.Info("project_deleted", slog.Int64("project_id", projectID))
	return nil
}

// Reindex re-extracts every stored document in the project, re-chunks,
// replaces the persisted chunks, and rebuilds the index. Extraction
// runs in parallel per document.
func (g *Ingestor) Reindex(ctx context.Context, projectID int64) (int, error) {
	docs, err := g.meta.ListDocuments(ctx, projectID)
	if err != nil {
		return 0, err
	}

	texts := make([][]string, len(docs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, doc := range docs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			text, err := chunk.ExtractText(doc.StoredPath)
			if err != nil {
				return fmt.Errorf("document %d (%s): %w", doc.ID, doc.Filename, err)
			}
			texts[i] = chunk.Split(text, g.chunkSize, g.overlap)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	for i, doc := range docs {
		if err := g.meta.SaveChunks(ctx, doc.ID, texts[i]); err != nil {
			return 0, err
		}
	}

	chunks, err := g.meta.ListChunks(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return g.indexer.Rebuild(ctx, projectID, chunks)
}

func (g *Ingestor) rebuild(ctx context.Context, projectID int64) error {
	chunks, err := g.meta.ListChunks(ctx, projectID)
	if err != nil {
		return err
	}
	_, err = g.indexer.Rebuild(ctx, projectID, chunks)
	return err
}

// storeUpload copies the source file into the project's upload
// directory and returns the stored path. Each copy gets a random name
// prefix, so documents sharing a filename never share a stored file
// and removing one cannot orphan the other.
func (g *Ingestor) storeUpload(projectID int64, srcPath, filename string) (string, error) {
	dir := filepath.Join(g.uploadRoot, strconv.FormatInt(projectID, 10))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("failed to create upload directory %s", dir), err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("failed to open %s", srcPath), err)
	}
	defer src.Close()

	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	dstPath := filepath.Join(dir, hex.EncodeToString(suffix)+"_"+filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("failed to create %s", dstPath), err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("failed to copy upload to %s", dstPath), err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", apperrors.New(apperrors.ErrCodeDocumentIO,
			fmt.Sprintf("failed to close %s", dstPath), err)
	}

	return dstPath, nil
}
