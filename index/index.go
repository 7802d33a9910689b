package index

import (
	"fmt"
	"slices"
)

// Hit is one search result: the ordinal position of a matched vector and
// its inner-product score against the query.
type Hit struct {
	Position int
	Score    float32
}

// Flat is an exact inner-product index over fixed-dimension vectors.
// It scans every stored vector on search, which keeps results exact and
// the on-disk artifact portable across build and query hosts.
type Flat struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return &Flat{dim: dim}, nil
}

// FromVectors creates an index holding the given vectors. The vectors are
// taken over as-is (callers must not mutate them afterwards) and every
// vector must have the given dimension.
func FromVectors(dim int, vectors [][]float32) (*Flat, error) {
	idx, err := New(dim)
	if err != nil {
		return nil, err
	}
	if err := idx.Add(vectors...); err != nil {
		return nil, err
	}
	return idx, nil
}

// Add appends vectors to the index in order. Positions are assigned
// sequentially from the current length.
func (f *Flat) Add(vectors ...[]float32) error {
	for _, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("%w: index dimension %d, vector dimension %d", ErrDimensionMismatch, f.dim, len(v))
		}
	}
	f.vectors = append(f.vectors, vectors...)
	return nil
}

// Len returns the number of vectors in the index.
func (f *Flat) Len() int {
	return len(f.vectors)
}

// Dim returns the vector dimension of the index.
func (f *Flat) Dim() int {
	return f.dim
}

// Vectors exposes the stored vectors for persistence. Callers must treat
// the returned slices as read-only.
func (f *Flat) Vectors() [][]float32 {
	return f.vectors
}

// Search returns up to k (position, score) pairs sorted by descending
// score. When the index holds fewer than k vectors the result is shorter;
// empty slots are omitted, never zero-filled. The query must be normalized
// by the caller for scores to equal cosine similarity.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: index dimension %d, query dimension %d", ErrDimensionMismatch, f.dim, len(query))
	}

	hits := make([]Hit, 0, len(f.vectors))
	for i, v := range f.vectors {
		hits = append(hits, Hit{Position: i, Score: dotProduct(query, v)})
	}

	// Sort by score descending; ties break on position for determinism.
	slices.SortFunc(hits, func(a, b Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.Position - b.Position
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
