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

// Package reembed rebuilds the cached question embeddings of the stored FAQ
// set, typically after switching to a new embedding model.
//
// Entries are embedded in batches with retry and exponential backoff, vectors
// are normalized to unit length before they are stored, and progress is
// reported to a writer as the run advances.
package reembed
