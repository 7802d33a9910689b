// Copyright 2025 Thadesh Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/j22k/thadesh/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// ChunkMUS is the MUS serializer for core.Chunk. Chunks are written as
// text, source, position in that order.
var ChunkMUS = chunkSer{}

type chunkSer struct{}

// Marshal writes the chunk into bs and returns the number of bytes written.
func (chunkSer) Marshal(chunk core.Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(chunk.Text, bs)
	n += ord.String.Marshal(chunk.Source, bs[n:])
	n += varint.Int.Marshal(chunk.Position, bs[n:])
	return n
}

// Unmarshal reads a chunk from bs and returns it with the number of bytes read.
func (chunkSer) Unmarshal(bs []byte) (chunk core.Chunk, n int, err error) {
	var n1 int
	chunk.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	chunk.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	chunk.Position, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

// Size returns the serialized size of the chunk in bytes.
func (chunkSer) Size(chunk core.Chunk) (size int) {
	size = ord.String.Size(chunk.Text)
	size += ord.String.Size(chunk.Source)
	size += varint.Int.Size(chunk.Position)
	return size
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, ChunkMUS.Size(*chunk))
	ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// VectorMUS is the MUS serializer for a fixed-dimension embedding vector.
// The length is not encoded; the index header carries the dimension once
// for all vectors, keeping the artifact compact.
var VectorMUS = vectorSer{}

type vectorSer struct{}

// Marshal writes the vector into bs and returns the number of bytes written.
func (vectorSer) Marshal(vector []float32, bs []byte) (n int) {
	for _, v := range vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	return n
}

// Unmarshal reads dim float32 values from bs.
func (vectorSer) Unmarshal(bs []byte, dim int) (vector []float32, n int, err error) {
	vector = make([]float32, dim)
	var n1 int
	for i := 0; i < dim; i++ {
		vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return vector, n, nil
}

// Size returns the serialized size of the vector in bytes.
func (vectorSer) Size(vector []float32) int {
	if len(vector) == 0 {
		return 0
	}
	return len(vector) * raw.Float32.Size(vector[0])
}
