package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/j22k/thadesh/ai"
	"github.com/j22k/thadesh/core"
	"github.com/j22k/thadesh/index"
	"github.com/panjf2000/ants/v2"
)

// embedBatchSize is the number of chunks embedded per request.
const embedBatchSize = 32

// embedChunks generates normalized embeddings for all chunks, fanning
// batches out over the worker pool. The result slice is position-aligned
// with the input: vector i embeds chunk i. The first batch error aborts
// the whole run.
func embedChunks(ctx context.Context, embedder ai.Embedder, chunks []core.Chunk, pool *ants.Pool, logger *slog.Logger) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = chunks[i].Text
		}

		start := start
		wg.Add(1)
		task := func() {
			defer wg.Done()

			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed || ctx.Err() != nil {
				return
			}

			embeddings, err := embedder.EmbedTexts(ctx, texts)
			if err == nil && len(embeddings) != len(texts) {
				err = fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(embeddings))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i, embedding := range embeddings {
				vectors[start+i] = index.NormalizeVector(embedding)
			}
			logger.Debug("embedded chunk batch", "start", start, "size", len(texts))
		}

		if err := pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
