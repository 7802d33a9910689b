package ingestion

import "errors"

var (
	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrUnsupportedFormat is returned for document types no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoText is returned when extraction yields no usable text.
	ErrNoText = errors.New("no text extracted from document")

	// ErrNoChunks is returned when chunking leaves nothing to index.
	ErrNoChunks = errors.New("no chunks produced from document")

	// ErrArtifactsExist is returned when the target artifact files already
	// exist and overwriting was not requested.
	ErrArtifactsExist = errors.New("artifact files already exist")
)
