// Package ingestion provides the document processing pipeline that turns a
// source document into the query-ready artifact pair.
//
// The Pipeline type manages the ingestion workflow:
//   - Extracting plain text from the source document
//   - Splitting the text into overlapping chunks
//   - Generating embeddings concurrently using a worker pool
//   - Building the vector index and persisting the artifact pair
//
// Ingestion is an offline, all-or-nothing operation: a failure at any stage
// leaves no partial artifacts behind.
package ingestion
