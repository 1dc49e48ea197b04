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

package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) *EmbeddingRepository {
	return &EmbeddingRepository{backend: backend}
}

// Close is a no-op; the backend is owned by the caller.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// PutEmbeddings stores embeddings keyed by model and entry ID.
func (r *EmbeddingRepository) PutEmbeddings(ctx context.Context, embeddings ...*core.Embedding) error {
	for _, embedding := range embeddings {
		if embedding == nil || embedding.Model == "" || embedding.FaqId == 0 {
			return fmt.Errorf("%w: embedding requires model and faq id", storage.ErrInvalidQuery)
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, embedding := range embeddings {
			if embedding.InsertedAt.IsZero() {
				embedding.InsertedAt = now
			}
			key := makeEmbeddingKey(embedding.Model, embedding.FaqId)
			if err := tx.Set(key, storage.MarshalEmbedding(embedding)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbeddings returns the embeddings of model for ids.
func (r *EmbeddingRepository) GetEmbeddings(ctx context.Context, model string, ids ...core.ID) (map[core.ID]*core.Embedding, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", storage.ErrInvalidQuery)
	}

	result := make(map[core.ID]*core.Embedding, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeEmbeddingKey(model, id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}

			var embedding *core.Embedding
			err = item.Value(func(val []byte) error {
				var unmarshalErr error
				embedding, unmarshalErr = storage.UnmarshalEmbedding(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			result[id] = embedding
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteEmbeddings removes the embeddings of model for ids.
func (r *EmbeddingRepository) DeleteEmbeddings(ctx context.Context, model string, ids ...core.ID) error {
	if model == "" {
		return fmt.Errorf("%w: model is required", storage.ErrInvalidQuery)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			// Deleting an absent key is a no-op in badger
			if err := tx.Delete(makeEmbeddingKey(model, id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
