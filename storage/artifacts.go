package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/j22k/thadesh/core"
	"github.com/j22k/thadesh/index"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Artifact file identification. The version byte guards against loading
// artifacts produced by an incompatible build.
const (
	indexMagic      = "TDIX"
	chunksMagic     = "TDCH"
	artifactVersion = 1
)

// SaveArtifacts writes the index and the ordered chunk sequence as the two
// files of the artifact pair. The chunk fingerprint is embedded in the
// index file so a later load can detect a mismatched pair. Overwrite policy
// is the caller's concern; existing files are replaced. Each file is
// written to a temp path and renamed into place, chunks first and index
// last, so a crash mid-write never leaves a torn artifact behind.
func SaveArtifacts(indexPath, chunksPath string, idx *index.Flat, chunks []core.Chunk) error {
	if idx.Len() != len(chunks) {
		return fmt.Errorf("%w: %d vectors, %d chunks", ErrPairMismatch, idx.Len(), len(chunks))
	}

	if err := writeArtifactFile(chunksPath, encodeChunks(chunks)); err != nil {
		return fmt.Errorf("writing chunks artifact: %w", err)
	}
	if err := writeArtifactFile(indexPath, encodeIndex(idx, core.Fingerprint(chunks))); err != nil {
		return fmt.Errorf("writing index artifact: %w", err)
	}
	return nil
}

// writeArtifactFile writes data to a temp file in the target directory and
// renames it over path, so the artifact at path is always complete.
func writeArtifactFile(path string, data []byte) error {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadArtifacts reads the artifact pair back and cross-checks it. Any
// missing file, unknown format, truncated payload, count mismatch between
// the two files, or fingerprint mismatch is a load failure; a system must
// not serve queries against a partially loaded or stale pair.
func LoadArtifacts(indexPath, chunksPath string) (*index.Flat, []core.Chunk, error) {
	indexData, err := readArtifactFile(indexPath)
	if err != nil {
		return nil, nil, err
	}
	chunksData, err := readArtifactFile(chunksPath)
	if err != nil {
		return nil, nil, err
	}

	idx, fingerprint, err := decodeIndex(indexData)
	if err != nil {
		return nil, nil, fmt.Errorf("index artifact %s: %w", indexPath, err)
	}
	chunks, err := decodeChunks(chunksData)
	if err != nil {
		return nil, nil, fmt.Errorf("chunks artifact %s: %w", chunksPath, err)
	}

	if idx.Len() != len(chunks) {
		return nil, nil, fmt.Errorf("%w: index holds %d vectors, chunks file holds %d chunks",
			ErrPairMismatch, idx.Len(), len(chunks))
	}
	if got := core.Fingerprint(chunks); got != fingerprint {
		return nil, nil, fmt.Errorf("%w: chunk fingerprint %x does not match index fingerprint %x",
			ErrPairMismatch, got, fingerprint)
	}

	return idx, chunks, nil
}

// readArtifactFile reads a file, mapping a missing file to ErrArtifactMissing.
func readArtifactFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, err
	}
	return data, nil
}

// encodeIndex serializes the index file: magic, version, dimension, vector
// count, chunk fingerprint, then the vectors as raw little-endian float32.
func encodeIndex(idx *index.Flat, fingerprint uint64) []byte {
	size := len(indexMagic) + 1
	size += varint.Int.Size(idx.Dim())
	size += varint.Int.Size(idx.Len())
	size += raw.Uint64.Size(fingerprint)
	for _, v := range idx.Vectors() {
		size += VectorMUS.Size(v)
	}

	buf := make([]byte, size)
	n := copy(buf, indexMagic)
	buf[n] = artifactVersion
	n++
	n += varint.Int.Marshal(idx.Dim(), buf[n:])
	n += varint.Int.Marshal(idx.Len(), buf[n:])
	n += raw.Uint64.Marshal(fingerprint, buf[n:])
	for _, v := range idx.Vectors() {
		n += VectorMUS.Marshal(v, buf[n:])
	}
	return buf
}

// decodeIndex parses an index artifact and rebuilds the in-memory index.
func decodeIndex(data []byte) (*index.Flat, uint64, error) {
	rest, err := checkHeader(data, indexMagic)
	if err != nil {
		return nil, 0, err
	}

	dim, n, err := varint.Int.Unmarshal(rest)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	rest = rest[n:]

	count, n, err := varint.Int.Unmarshal(rest)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	rest = rest[n:]
	if count < 0 || dim <= 0 {
		return nil, 0, fmt.Errorf("%w: dimension %d, count %d", ErrBadArtifact, dim, count)
	}

	fingerprint, n, err := raw.Uint64.Unmarshal(rest)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	rest = rest[n:]

	// Bound count by the remaining payload before allocating anything, so
	// a corrupt header cannot demand an arbitrarily large slice.
	if vectorBytes := dim * 4; count > len(rest)/vectorBytes {
		return nil, 0, fmt.Errorf("%w: header claims %d vectors, payload holds %d bytes",
			ErrTruncatedData, count, len(rest))
	}

	vectors := make([][]float32, count)
	for i := 0; i < count; i++ {
		vectors[i], n, err = VectorMUS.Unmarshal(rest, dim)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: vector %d: %w", ErrTruncatedData, i, err)
		}
		rest = rest[n:]
	}

	idx, err := index.FromVectors(dim, vectors)
	if err != nil {
		return nil, 0, err
	}
	return idx, fingerprint, nil
}

// encodeChunks serializes the chunks file: magic, version, count, chunks.
func encodeChunks(chunks []core.Chunk) []byte {
	size := len(chunksMagic) + 1
	size += varint.Int.Size(len(chunks))
	for _, chunk := range chunks {
		size += ChunkMUS.Size(chunk)
	}

	buf := make([]byte, size)
	n := copy(buf, chunksMagic)
	buf[n] = artifactVersion
	n++
	n += varint.Int.Marshal(len(chunks), buf[n:])
	for _, chunk := range chunks {
		n += ChunkMUS.Marshal(chunk, buf[n:])
	}
	return buf
}

// decodeChunks parses a chunks artifact back into the ordered sequence.
func decodeChunks(data []byte) ([]core.Chunk, error) {
	rest, err := checkHeader(data, chunksMagic)
	if err != nil {
		return nil, err
	}

	count, n, err := varint.Int.Unmarshal(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	rest = rest[n:]
	if count < 0 {
		return nil, fmt.Errorf("%w: negative chunk count", ErrBadArtifact)
	}

	chunks := make([]core.Chunk, count)
	for i := 0; i < count; i++ {
		chunks[i], n, err = ChunkMUS.Unmarshal(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %w", ErrTruncatedData, i, err)
		}
		rest = rest[n:]
	}
	return chunks, nil
}

// checkHeader validates magic and version, returning the payload after them.
func checkHeader(data []byte, magic string) ([]byte, error) {
	if len(data) < len(magic)+1 {
		return nil, fmt.Errorf("%w: file shorter than header", ErrTruncatedData)
	}
	if !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadArtifact, data[:len(magic)])
	}
	if data[len(magic)] != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadArtifact, data[len(magic)])
	}
	return data[len(magic)+1:], nil
}
