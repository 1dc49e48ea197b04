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

package storage

import (
	"context"

	"github.com/poiesic/faqmatch/core"
)

// Repository is the lifecycle shared by all repositories.
type Repository interface {
	// Close releases resources held by the repository. It does not close the
	// underlying backend.
	Close() error
}

// FaqRepository persists the FAQ set. The set is ordered and replaced as a whole.
type FaqRepository interface {
	Repository

	// SaveFaqSet validates entries and replaces the stored set with them,
	// preserving their order.
	SaveFaqSet(ctx context.Context, entries ...*core.FaqEntry) error

	// GetFaqEntry retrieves a single entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetFaqEntry(ctx context.Context, id core.ID) (*core.FaqEntry, error)

	// GetFaqEntries retrieves multiple entries by their IDs.
	// Returns only the entries that exist (no error for missing entries).
	GetFaqEntries(ctx context.Context, ids ...core.ID) ([]*core.FaqEntry, error)

	// ListFaqEntries returns the whole set in saved order.
	ListFaqEntries(ctx context.Context) ([]*core.FaqEntry, error)

	// CountFaqEntries returns the number of stored entries.
	CountFaqEntries(ctx context.Context) (int, error)
}

// EmbeddingRepository caches question embeddings per embedding model.
type EmbeddingRepository interface {
	Repository

	// PutEmbeddings stores embeddings, replacing any existing embedding for
	// the same entry and model. Sets InsertedAt if not already set.
	PutEmbeddings(ctx context.Context, embeddings ...*core.Embedding) error

	// GetEmbeddings returns the stored embeddings of model for ids, keyed by
	// entry ID. Missing embeddings are absent from the map.
	GetEmbeddings(ctx context.Context, model string, ids ...core.ID) (map[core.ID]*core.Embedding, error)

	// DeleteEmbeddings removes the embeddings of model for ids.
	// Missing embeddings are ignored.
	DeleteEmbeddings(ctx context.Context, model string, ids ...core.ID) error
}
