package ingestion

import (
	"fmt"
	"strings"

	"github.com/j22k/thadesh/core"
	"github.com/tmc/langchaingo/textsplitter"
)

// Chunking defaults. Legal prose needs generous overlap so a provision
// split across a boundary still appears whole in one of the chunks.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
	DefaultMinChunkLen  = 50
)

// Chunker splits extracted document text into overlapping chunks.
type Chunker struct {
	splitter    textsplitter.RecursiveCharacter
	minChunkLen int
	source      string
}

// NewChunker creates a chunker for the given source document name.
// Splitting prefers paragraph breaks, then line breaks, then spaces.
func NewChunker(source string, chunkSize, chunkOverlap, minChunkLen int) *Chunker {
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
		minChunkLen: minChunkLen,
		source:      source,
	}
}

// Chunk splits text and assigns sequential positions. Fragments at or below
// the minimum length are dropped; positions are assigned after filtering so
// the sequence stays dense.
func (c *Chunker) Chunk(text string) ([]core.Chunk, error) {
	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting text: %w", err)
	}

	chunks := make([]core.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if len(piece) <= c.minChunkLen {
			continue
		}
		chunks = append(chunks, core.Chunk{
			Text:     piece,
			Source:   c.source,
			Position: len(chunks),
		})
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}
