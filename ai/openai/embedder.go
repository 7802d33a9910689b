package openai

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/j22k/thadesh/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// embedBatchSize bounds how many strings go to the embedding API per call.
const embedBatchSize = 32

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// It holds a primary client and an optional fallback client. The first hard
// failure of the primary endpoint switches the embedder to the fallback for
// the remainder of the process; the strategy is resolved once, not per call.
type Embedder struct {
	primary       embeddings.Embedder
	fallback      embeddings.Embedder
	usingFallback atomic.Bool
	logger        *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	primary, err := newEmbeddingClient(config.EmbeddingHost, config.EmbeddingModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	var fallback embeddings.Embedder
	if config.FallbackEmbeddingHost != "" {
		fallback, err = newEmbeddingClient(config.FallbackEmbeddingHost, config.EmbeddingModel, config.APIKey)
		if err != nil {
			return nil, err
		}
	}

	return &Embedder{
		primary:  primary,
		fallback: fallback,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// newEmbeddingClient builds a langchaingo embedder against one endpoint.
// Use "none" as token for local OpenAI-compatible services that don't require authentication.
func newEmbeddingClient(host, model, apiKey string) (embeddings.Embedder, error) {
	token := apiKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}

	return embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(embedBatchSize),
	)
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding service returned no result")
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts)
}

// embed routes the request to the active endpoint. When the primary fails
// and a fallback is configured, the fallback is tried once; on success it
// becomes the active endpoint.
func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if !e.usingFallback.Load() {
		vectors, err := e.primary.EmbedDocuments(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		if e.fallback == nil || ctx.Err() != nil {
			e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
			return nil, err
		}
		e.logger.Warn("primary embedding endpoint failed, switching to fallback", "err", err)
	}

	vectors, err := e.fallback.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("fallback embedding endpoint failed", "count", len(texts), "err", err)
		return nil, err
	}
	e.usingFallback.Store(true)
	return vectors, nil
}
