package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	apperrors "github.com/docdex/docdex/internal/errors"
)

// GitHubConfig configures the GitHub Models embedding client.
type GitHubConfig struct {
	// Endpoint is the inference base URL, e.g.
	// https://models.github.ai/inference
	Endpoint string
	// Token is the bearer credential.
	Token string
	// Model is the embedding model identifier.
	Model string
	// APIVersion is sent as X-GitHub-Api-Version.
	APIVersion string
	// Timeout bounds each call; defaults to DefaultTimeout.
	Timeout time.Duration
}

// GitHubEmbedder generates embeddings via the GitHub Models inference
// API. One call issues exactly one batched HTTP request; there is no
// retry, a failed call fails the whole operation.
type GitHubEmbedder struct {
	client *http.Client
	cfg    GitHubConfig
}

// Verify interface implementation at compile time
var _ Embedder = (*GitHubEmbedder)(nil)

// NewGitHubEmbedder creates the client. Missing credentials or
// endpoint fail immediately with a configuration error so that
// embed-dependent operations never start half-configured.
func NewGitHubEmbedder(cfg GitHubConfig) (*GitHubEmbedder, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, apperrors.Configuration("GITHUB_MODELS_TOKEN is not configured")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, apperrors.Configuration("embedding provider endpoint is not configured")
	}
	if cfg.Model == "" {
		return nil, apperrors.Configuration("embedding model is not configured")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &GitHubEmbedder{
		// Timeout is enforced per request via context so callers can
		// impose a tighter deadline of their own.
		client: &http.Client{},
		cfg:    cfg,
	}, nil
}

// embedRequest is the request body for the embeddings endpoint.
type embedRequest struct {
	Input          []string `json:"input"`
	Model          string   `json:"model"`
	EncodingFormat string   `json:"encoding_format"`
}

// embedResponse is the typed provider response. The Index field ties
// each row back to its input position; row order is not trusted.
type embedResponse struct {
	Data []embedRow `json:"data"`
}

type embedRow struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// Embed generates an embedding for a single text.
func (e *GitHubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for all texts in one provider call.
func (e *GitHubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(embedRequest{
		Input:          texts,
		Model:          e.cfg.Model,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	url := strings.TrimRight(e.cfg.Endpoint, "/") + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.Token)
	req.Header.Set("X-GitHub-Api-Version", e.cfg.APIVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, apperrors.ProviderResponse("embedding request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, apperrors.ProviderStatus(resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.ProviderResponse("embedding response is not valid JSON", err)
	}

	return zipByIndex(result.Data, len(texts))
}

// zipByIndex re-sorts provider rows by their index field and validates
// the response covers every input exactly once.
func zipByIndex(rows []embedRow, want int) ([][]float32, error) {
	if len(rows) != want {
		return nil, apperrors.ProviderResponse(
			fmt.Sprintf("embedding response was incomplete: got %d embeddings for %d inputs", len(rows), want), nil)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })

	out := make([][]float32, want)
	for _, row := range rows {
		if row.Index < 0 || row.Index >= want {
			return nil, apperrors.ProviderResponse(
				fmt.Sprintf("embedding response index %d out of range", row.Index), nil)
		}
		if row.Embedding == nil {
			return nil, apperrors.ProviderResponse(
				fmt.Sprintf("embedding response missing vector at index %d", row.Index), nil)
		}
		if out[row.Index] != nil {
			return nil, apperrors.ProviderResponse(
				fmt.Sprintf("embedding response duplicates index %d", row.Index), nil)
		}
		out[row.Index] = row.Embedding
	}
	return out, nil
}

// ModelName returns the model identifier.
func (e *GitHubEmbedder) ModelName() string {
	return e.cfg.Model
}

// Close releases idle connections.
func (e *GitHubEmbedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
