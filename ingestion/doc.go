// Copyright 2025 Poiesic Systems
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

// Package ingestion loads a FAQ set into storage and keeps its embedding
// cache current.
//
// The Pipeline type manages the ingestion workflow:
//   - Validating and saving the FAQ set as a whole
//   - Embedding questions that have no cached vector or whose text changed
//   - Dropping cached vectors of entries that left the set
//
// Embedding batches run concurrently on a worker pool and Ingest waits for all
// of them. Embedding failures are logged and counted in the Report but do not
// fail the ingestion; matching then falls back to lexical strategies for the
// affected entries.
//
// BuildIndex assembles the immutable match.Index from what is stored.
package ingestion
