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

package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/j22k/thadesh/ai"
	"github.com/j22k/thadesh/core"
	"github.com/j22k/thadesh/index"
)

// Retrieval defaults.
const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 3

	// DefaultMinScore is the similarity cutoff below which a retrieved
	// chunk is considered unrelated to the question. A flat index always
	// returns k hits; the cutoff is what turns "nothing relevant" into
	// an explicit no-match answer.
	DefaultMinScore float32 = 0.25

	// DefaultSnippetLen is the rune length at which source snippets are
	// truncated for display.
	DefaultSnippetLen = 200
)

// Engine answers questions over a loaded corpus. The index and chunks are
// read-only after construction, so Ask is safe for concurrent use.
type Engine struct {
	embedder   ai.Embedder
	generator  ai.Generator
	idx        *index.Flat
	chunks     []core.Chunk
	topK       int
	minScore   float32
	snippetLen int
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTopK sets the default number of chunks retrieved per question.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k < 1 {
			return fmt.Errorf("top-k must be positive, got %d", k)
		}
		e.topK = k
		return nil
	}
}

// WithMinScore sets the similarity cutoff for retrieved chunks.
// Default is DefaultMinScore.
func WithMinScore(score float32) Option {
	return func(e *Engine) error {
		e.minScore = score
		return nil
	}
}

// WithSnippetLen sets the rune length of displayed source snippets.
// Default is DefaultSnippetLen.
func WithSnippetLen(length int) Option {
	return func(e *Engine) error {
		if length < 1 {
			return fmt.Errorf("snippet length must be positive, got %d", length)
		}
		e.snippetLen = length
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "query")
		return nil
	}
}

// NewEngine creates a query engine over a loaded index and chunk sequence.
func NewEngine(provider ai.Provider, idx *index.Flat, chunks []core.Chunk, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyCorpus
	}
	if idx.Len() != len(chunks) {
		return nil, fmt.Errorf("index holds %d vectors for %d chunks", idx.Len(), len(chunks))
	}

	e := &Engine{
		embedder:   provider.Embedder(),
		generator:  provider.Generator(),
		idx:        idx,
		chunks:     chunks,
		topK:       DefaultTopK,
		minScore:   DefaultMinScore,
		snippetLen: DefaultSnippetLen,
		logger:     slog.Default().With("component", "query"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Ask answers a question using up to numSources retrieved chunks.
// numSources values below 1 fall back to the engine's default. Ask never
// returns an error: every failure becomes a complete response with
// Success=false and the cause in ErrorMessage.
func (e *Engine) Ask(ctx context.Context, question string, numSources int) *core.QueryResponse {
	start := time.Now()

	if err := core.ValidateQuestion(question); err != nil {
		return &core.QueryResponse{
			Answer:       answerInvalidQuestion,
			Sources:      []string{},
			ResponseTime: time.Since(start).Seconds(),
			Success:      false,
			ErrorMessage: err.Error(),
		}
	}

	resp, err := e.answer(ctx, question, numSources)
	if err != nil {
		e.logger.Error("error processing question", "err", err)
		resp = &core.QueryResponse{
			Answer:       answerInternalError,
			Sources:      []string{},
			Success:      false,
			ErrorMessage: err.Error(),
		}
	}

	resp.ResponseTime = time.Since(start).Seconds()
	return resp
}

// answer runs the retrieval and generation flow for a validated question.
func (e *Engine) answer(ctx context.Context, question string, numSources int) (*core.QueryResponse, error) {
	k := numSources
	if k < 1 {
		k = e.topK
	}

	matches, err := e.retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		e.logger.Info("no relevant chunks for question", "k", k)
		return &core.QueryResponse{
			Answer:  answerNoMatch,
			Sources: []string{},
			Success: true,
		}, nil
	}

	// Context holds the full chunk texts in descending-score order.
	texts := make([]string, len(matches))
	for i, match := range matches {
		texts[i] = match.Text
	}
	context := strings.Join(texts, "\n\n")

	answer, err := e.generator.Generate(ctx, systemPrompt, buildUserPrompt(context, question))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer) == "" {
		return nil, ErrNoAnswer
	}

	var total float64
	sources := make([]string, len(matches))
	for i, match := range matches {
		total += float64(match.Score)
		sources[i] = truncateSnippet(match.Text, e.snippetLen)
	}

	return &core.QueryResponse{
		Answer:     answer,
		Sources:    sources,
		Confidence: total / float64(len(matches)),
		NumSources: len(matches),
		Success:    true,
	}, nil
}

// retrieve embeds the question and returns the chunks scoring at or above
// the cutoff, best first.
func (e *Engine) retrieve(ctx context.Context, question string, k int) ([]core.ScoredChunk, error) {
	embedding, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := e.idx.Search(index.NormalizeVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	matches := make([]core.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < e.minScore {
			continue
		}
		matches = append(matches, core.ScoredChunk{
			Chunk: e.chunks[hit.Position],
			Score: hit.Score,
		})
	}

	e.logger.Debug("retrieved chunks", "requested", k, "matched", len(matches))
	return matches, nil
}

// truncateSnippet shortens text to limit runes for display, appending an
// ellipsis when anything was cut.
func truncateSnippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
