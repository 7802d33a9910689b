// Package index provides an exact inner-product nearest-neighbor index
// over L2-normalized embedding vectors. Vectors are addressed by their
// ordinal position, which joins them to the chunk stored at the same
// position in the corpus. The index is built once at ingestion time and
// treated as read-only at query time, so searches need no locking.
package index
