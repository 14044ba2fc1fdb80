package cmd

import (
	"log/slog"

	"github.com/docdex/docdex/internal/config"
	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/index"
	"github.com/docdex/docdex/internal/search"
	"github.com/docdex/docdex/internal/store"
)

// app holds the wired-up application components for one command run.
type app struct {
	cfg      config.Config
	meta     store.MetadataStore
	indexes  *store.IndexStore
	embedder embed.Embedder
	ingestor *index.Ingestor
	searcher *search.Searcher
}

// newApp loads configuration and wires stores, the embedder, the
// ingestor, and the searcher. Callers must Close the returned app.
func newApp(needsEmbedder bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	meta, err := store.NewSQLiteStore(cfg.MetadataPath())
	if err != nil {
		return nil, err
	}

	indexes, err := store.NewIndexStore(cfg.IndexRoot())
	if err != nil {
		_ = meta.Close()
		return nil, err
	}

	var embedder embed.Embedder
	if needsEmbedder {
		embedder, err = newEmbedder(cfg)
		if err != nil {
			_ = meta.Close()
			return nil, err
		}
	}

	logger := slog.Default()
	indexer := index.NewIndexer(embedder, indexes, logger)
	ingestor := index.NewIngestor(meta, indexer, index.IngestorConfig{
		UploadRoot: cfg.UploadRoot(),
		ChunkSize:  cfg.Chunking.Size,
		Overlap:    cfg.Chunking.Overlap,
	}, logger)
	searcher := search.NewSearcher(embedder, indexes, logger)

	return &app{
		cfg:      cfg,
		meta:     meta,
		indexes:  indexes,
		embedder: embedder,
		ingestor: ingestor,
		searcher: searcher,
	}, nil
}

// newEmbedder selects the embedding backend. The --offline flag swaps
// in deterministic static embeddings; otherwise the GitHub Models
// client is wrapped in an LRU cache.
func newEmbedder(cfg config.Config) (embed.Embedder, error) {
	if offline {
		slog.Debug("embedder_selected", slog.String("backend", "static"))
		return embed.NewStaticEmbedder(), nil
	}

	gh, err := embed.NewGitHubEmbedder(embed.GitHubConfig{
		Endpoint:   cfg.Provider.Endpoint,
		Token:      cfg.Provider.Token,
		Model:      cfg.Provider.Model,
		APIVersion: cfg.Provider.APIVersion,
		Timeout:    cfg.ProviderTimeout(),
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("embedder_selected",
		slog.String("backend", "github-models"),
		slog.String("model", cfg.Provider.Model))
	return embed.NewCachedEmbedder(gh, cfg.Provider.CacheSize), nil
}

func (a *app) Close() {
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	_ = a.meta.Close()
}
