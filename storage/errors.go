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

import "errors"

var (
	// ErrArtifactMissing indicates a required artifact file does not exist.
	ErrArtifactMissing = errors.New("artifact file missing")

	// ErrBadArtifact indicates an artifact with an unknown magic or version.
	ErrBadArtifact = errors.New("unrecognized artifact format")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")

	// ErrPairMismatch indicates index and chunks files that don't belong together.
	ErrPairMismatch = errors.New("artifact pair mismatch")
)
