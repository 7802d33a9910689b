package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j22k/thadesh/ai/mock"
	"github.com/j22k/thadesh/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestDocument(t *testing.T, dir string) string {
	t.Helper()
	sections := []string{
		strings.Repeat("Birth certificates are issued by the Village Registrar within seven days of registration. ", 5),
		strings.Repeat("Property tax is assessed annually based on the plinth area of the building. ", 5),
		strings.Repeat("Building permits require a site plan approved by the Panchayat Secretary. ", 5),
	}
	path := filepath.Join(dir, "panchayat-guide.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(sections, "\n\n")), 0o644))
	return path
}

func TestPipeline_Ingest(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "corpus.idx")
	chunksPath := filepath.Join(dir, "corpus.chunks")
	docPath := writeTestDocument(t, dir)

	pipeline, err := NewPipeline(mock.NewMockProvider(), indexPath, chunksPath, WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	result, err := pipeline.Ingest(context.Background(), docPath)
	require.NoError(t, err)
	assert.Greater(t, result.Chunks, 0)
	assert.Equal(t, 384, result.Dimension)

	// The persisted pair must load back consistent with the run.
	idx, chunks, err := storage.LoadArtifacts(indexPath, chunksPath)
	require.NoError(t, err)
	assert.Equal(t, result.Chunks, idx.Len())
	assert.Equal(t, result.Chunks, len(chunks))

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Position)
		assert.Equal(t, "panchayat-guide.txt", chunk.Source)
	}
}

func TestPipeline_IngestRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "corpus.idx")
	chunksPath := filepath.Join(dir, "corpus.chunks")
	docPath := writeTestDocument(t, dir)

	pipeline, err := NewPipeline(mock.NewMockProvider(), indexPath, chunksPath)
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), docPath)
	require.NoError(t, err)

	_, err = pipeline.Ingest(context.Background(), docPath)
	assert.ErrorIs(t, err, ErrArtifactsExist)
}

func TestPipeline_IngestOverwrite(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "corpus.idx")
	chunksPath := filepath.Join(dir, "corpus.chunks")
	docPath := writeTestDocument(t, dir)

	pipeline, err := NewPipeline(mock.NewMockProvider(), indexPath, chunksPath, WithOverwrite(true))
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), docPath)
	require.NoError(t, err)
	_, err = pipeline.Ingest(context.Background(), docPath)
	require.NoError(t, err)
}

func TestPipeline_IngestFailures(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "corpus.idx")
	chunksPath := filepath.Join(dir, "corpus.chunks")

	pipeline, err := NewPipeline(mock.NewMockProvider(), indexPath, chunksPath)
	require.NoError(t, err)
	defer pipeline.Release()

	t.Run("unsupported format", func(t *testing.T) {
		_, err := pipeline.Ingest(context.Background(), filepath.Join(dir, "data.csv"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("empty document", func(t *testing.T) {
		blank := filepath.Join(dir, "blank.txt")
		require.NoError(t, os.WriteFile(blank, []byte("\n\n"), 0o644))

		_, err := pipeline.Ingest(context.Background(), blank)
		assert.ErrorIs(t, err, ErrNoText)
	})

	t.Run("no artifacts written on failure", func(t *testing.T) {
		_, err := os.Stat(indexPath)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(chunksPath)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestNewPipeline_Validation(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(nil, "i", "c")
		assert.ErrorIs(t, err, ErrProviderRequired)
	})

	t.Run("missing paths", func(t *testing.T) {
		_, err := NewPipeline(mock.NewMockProvider(), "", "")
		assert.Error(t, err)
	})

	t.Run("bad chunk size", func(t *testing.T) {
		_, err := NewPipeline(mock.NewMockProvider(), "i", "c", WithChunkSize(0))
		assert.Error(t, err)
	})

	t.Run("negative min chunk length", func(t *testing.T) {
		_, err := NewPipeline(mock.NewMockProvider(), "i", "c", WithMinChunkLen(-1))
		assert.Error(t, err)
	})
}
