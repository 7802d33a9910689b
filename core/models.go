package core

// Chunk is one segment of text extracted from a source document.
// Chunks are created once at ingestion time and never mutated afterwards.
// Position is the ordinal of the chunk within the corpus and is the join
// key to the vector at the same position in the index.
type Chunk struct {
	Text     string
	Source   string
	Position int
}

// ScoredChunk is a chunk matched by similarity search together with its
// raw inner-product score. For normalized vectors the score equals the
// cosine similarity and lies in [-1, 1]. The chunk is embedded so its
// fields read directly off the search result.
type ScoredChunk struct {
	Chunk
	Score float32
}

// QueryResponse is the result of a single query. It is created per request,
// returned to the caller, and never persisted. The JSON field names form
// the contract consumed by the chat/web layer.
type QueryResponse struct {
	Answer       string   `json:"answer"`
	Sources      []string `json:"sources"`
	Confidence   float64  `json:"confidence"`
	ResponseTime float64  `json:"response_time"` // seconds
	NumSources   int      `json:"num_sources"`
	Success      bool     `json:"success"`
	ErrorMessage string   `json:"error_message,omitempty"`
}
