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

// Package storage persists and loads the ingestion artifact pair: a vector
// index file and an ordered chunk sequence file. The two files are only
// valid together; loading checks that their vector/chunk counts agree and
// that the fingerprint stored in the index matches the loaded chunks, so a
// stale or mismatched pair fails at startup instead of at query time.
package storage
