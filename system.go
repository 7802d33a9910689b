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

// Package thadesh answers citizen questions about Kerala Panchayat rules
// and procedures using retrieval-augmented generation over ingested legal
// documents.
//
// A System is built once from a persisted artifact pair (vector index plus
// chunk sequence) and then serves any number of concurrent questions. The
// artifacts are produced offline by the ingestion package.
package thadesh

import (
	"context"
	"log/slog"

	"github.com/j22k/thadesh/ai"
	"github.com/j22k/thadesh/ai/openai"
	"github.com/j22k/thadesh/core"
	"github.com/j22k/thadesh/query"
	"github.com/j22k/thadesh/storage"
)

// System is the query-side entry point. Construction loads and cross-checks
// the artifact pair; a System that constructed successfully always answers.
type System struct {
	provider    ai.Provider
	engine      *query.Engine
	ownProvider bool
	logger      *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	engineOpts []query.Option
	logger     *slog.Logger
}

// WithEngineOptions forwards options to the underlying query engine.
func WithEngineOptions(opts ...query.Option) SystemOption {
	return func(o *systemOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SystemOption {
	return func(o *systemOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New builds a System over the artifact pair using the given AI provider.
// The caller retains ownership of the provider; Close will not release it.
func New(indexPath, chunksPath string, provider ai.Provider, opts ...SystemOption) (*System, error) {
	return newSystem(indexPath, chunksPath, provider, false, opts...)
}

// Open builds a System with its own openai provider from cfg. A nil cfg
// uses defaults. Close releases the provider.
func Open(indexPath, chunksPath string, cfg *ai.Config, opts ...SystemOption) (*System, error) {
	if cfg == nil {
		cfg = ai.DefaultConfig()
	}
	provider, err := openai.NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	s, err := newSystem(indexPath, chunksPath, provider, true, opts...)
	if err != nil {
		provider.Close()
		return nil, err
	}
	return s, nil
}

func newSystem(indexPath, chunksPath string, provider ai.Provider, ownProvider bool, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	idx, chunks, err := storage.LoadArtifacts(indexPath, chunksPath)
	if err != nil {
		return nil, err
	}
	options.logger.Info("corpus loaded",
		"chunks", len(chunks), "dimension", idx.Dim(),
		"index", indexPath, "chunksFile", chunksPath)

	engineOpts := append([]query.Option{query.WithLogger(options.logger)}, options.engineOpts...)
	engine, err := query.NewEngine(provider, idx, chunks, engineOpts...)
	if err != nil {
		return nil, err
	}

	return &System{
		provider:    provider,
		engine:      engine,
		ownProvider: ownProvider,
		logger:      options.logger,
	}, nil
}

// Ask answers a question using up to numSources retrieved document
// sections. It never returns an error; see query.Engine.Ask.
func (s *System) Ask(ctx context.Context, question string, numSources int) *core.QueryResponse {
	return s.engine.Ask(ctx, question, numSources)
}

// Close releases the AI provider if the System owns it.
func (s *System) Close() error {
	if !s.ownProvider {
		return nil
	}
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}
