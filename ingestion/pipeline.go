// Copyright 2025 Thadesh Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/j22k/thadesh/ai"
	"github.com/j22k/thadesh/index"
	"github.com/j22k/thadesh/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates document ingestion: extraction, chunking, batch
// embedding over a worker pool, index construction, and artifact persistence.
type Pipeline struct {
	provider     ai.Provider
	indexPath    string
	chunksPath   string
	pool         *ants.Pool
	chunkSize    int
	chunkOverlap int
	minChunkLen  int
	overwrite    bool
	logger       *slog.Logger
}

// Result summarizes a completed ingestion run.
type Result struct {
	Chunks    int
	Dimension int
	Elapsed   time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunkSize sets the target chunk size in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		p.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks.
// Default is DefaultChunkOverlap.
func WithChunkOverlap(overlap int) Option {
	return func(p *Pipeline) error {
		if overlap < 0 {
			return fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
		}
		p.chunkOverlap = overlap
		return nil
	}
}

// WithMinChunkLen sets the minimum stripped chunk length worth indexing.
// Default is DefaultMinChunkLen.
func WithMinChunkLen(length int) Option {
	return func(p *Pipeline) error {
		if length < 0 {
			return fmt.Errorf("min chunk length must not be negative, got %d", length)
		}
		p.minChunkLen = length
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithOverwrite allows the pipeline to replace existing artifact files.
// Default is false: existing artifacts fail the run with ErrArtifactsExist.
func WithOverwrite(overwrite bool) Option {
	return func(p *Pipeline) error {
		p.overwrite = overwrite
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// NewPipeline creates an ingestion pipeline writing to the given artifact
// paths.
func NewPipeline(provider ai.Provider, indexPath, chunksPath string, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if indexPath == "" || chunksPath == "" {
		return nil, fmt.Errorf("index and chunks paths required")
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		provider:     provider,
		indexPath:    indexPath,
		chunksPath:   chunksPath,
		pool:         pool,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		minChunkLen:  DefaultMinChunkLen,
		logger:       slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest processes the document at documentPath into the artifact pair.
// The run is all-or-nothing: nothing is written until every chunk has an
// embedding and the index is built.
func (p *Pipeline) Ingest(ctx context.Context, documentPath string) (*Result, error) {
	start := time.Now()

	if !p.overwrite {
		if err := p.checkArtifacts(); err != nil {
			return nil, err
		}
	}

	extractor, err := ForPath(documentPath, p.logger)
	if err != nil {
		return nil, err
	}

	p.logger.Info("extracting document text", "document", documentPath)
	text, err := extractor.Extract(documentPath)
	if err != nil {
		return nil, err
	}

	chunker := NewChunker(filepath.Base(documentPath), p.chunkSize, p.chunkOverlap, p.minChunkLen)
	chunks, err := chunker.Chunk(text)
	if err != nil {
		return nil, err
	}
	p.logger.Info("document chunked", "chunks", len(chunks), "characters", len(text))

	vectors, err := embedChunks(ctx, p.provider.Embedder(), chunks, p.pool, p.logger)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	idx, err := index.FromVectors(len(vectors[0]), vectors)
	if err != nil {
		return nil, err
	}

	if err := storage.SaveArtifacts(p.indexPath, p.chunksPath, idx, chunks); err != nil {
		return nil, err
	}

	result := &Result{
		Chunks:    len(chunks),
		Dimension: idx.Dim(),
		Elapsed:   time.Since(start),
	}
	p.logger.Info("ingestion complete",
		"chunks", result.Chunks, "dimension", result.Dimension, "elapsed", result.Elapsed)
	return result, nil
}

// checkArtifacts fails if either artifact file already exists.
func (p *Pipeline) checkArtifacts() error {
	for _, path := range []string{p.indexPath, p.chunksPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrArtifactsExist, path)
		} else if !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
