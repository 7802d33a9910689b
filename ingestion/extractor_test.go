package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Extractor
		wantErr error
	}{
		{path: "doc.pdf", want: &PDFExtractor{}},
		{path: "doc.PDF", want: &PDFExtractor{}},
		{path: "notes.txt", want: &TextExtractor{}},
		{path: "readme.md", want: &TextExtractor{}},
		{path: "data.csv", wantErr: ErrUnsupportedFormat},
		{path: "archive", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			extractor, err := ForPath(tt.path, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, extractor)
		})
	}
}

func TestTextExtractor(t *testing.T) {
	t.Run("reads file verbatim", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "act.txt")
		content := "Section 1. The Panchayat shall issue birth certificates.\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		text, err := (&TextExtractor{}).Extract(path)
		require.NoError(t, err)
		assert.Equal(t, content, text)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blank.txt")
		require.NoError(t, os.WriteFile(path, []byte("  \n\t\n"), 0o644))

		_, err := (&TextExtractor{}).Extract(path)
		assert.ErrorIs(t, err, ErrNoText)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := (&TextExtractor{}).Extract(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}

func TestPDFExtractor_MissingFile(t *testing.T) {
	_, err := (&PDFExtractor{}).Extract(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}
