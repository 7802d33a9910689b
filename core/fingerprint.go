package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint computes a deterministic 64-bit digest over an ordered chunk
// sequence using BLAKE2b hashing. The ingestion pipeline stores it in the
// index artifact so that a query process can detect a mismatched pair
// (index rebuilt but chunks file stale, or vice versa) at load time.
func Fingerprint(chunks []Chunk) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	var pos [8]byte
	for _, chunk := range chunks {
		binary.LittleEndian.PutUint64(pos[:], uint64(chunk.Position))
		h.Write(pos[:])
		h.Write([]byte(chunk.Text))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
