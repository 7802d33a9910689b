package query

import "errors"

var (
	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrIndexRequired is returned when an index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrEmptyCorpus is returned when the engine is built over zero chunks.
	ErrEmptyCorpus = errors.New("corpus holds no chunks")

	// ErrNoAnswer indicates the model produced no usable answer.
	ErrNoAnswer = errors.New("model produced no answer")
)
