// Package query answers questions over an ingested document corpus.
//
// The Engine type runs the retrieval-augmented flow: embed the question,
// search the vector index for the most similar chunks, assemble them into a
// reference context, and have the generative model produce a plain-language
// answer. The result is always a complete QueryResponse; failures are
// reported through its Success and ErrorMessage fields rather than as
// errors, so callers can render every outcome the same way.
package query
