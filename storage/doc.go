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

// Package storage provides the storage abstraction layer for faqmatch.
//
// This package defines repository interfaces that decouple the storage
// implementation from the rest of the system. Two kinds of data are kept:
//
//   - FaqRepository: the FAQ set, ordered and replaced as a whole
//   - EmbeddingRepository: question embeddings cached per embedding model
//
// Records are encoded with the mus serializers from package core.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	faqs := badger.NewFaqRepository(backend)
//	embeddings := badger.NewEmbeddingRepository(backend)
//
// Use in tests with in-memory storage:
//
//	faqs, embeddings, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
