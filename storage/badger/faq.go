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

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/storage"
)

// FaqRepository implements storage.FaqRepository for BadgerDB.
type FaqRepository struct {
	backend *Backend
}

var _ storage.FaqRepository = (*FaqRepository)(nil)

// NewFaqRepository creates a new FaqRepository.
func NewFaqRepository(backend *Backend) *FaqRepository {
	return &FaqRepository{backend: backend}
}

// Close is a no-op; the backend is owned by the caller.
func (r *FaqRepository) Close() error {
	return nil
}

// SaveFaqSet replaces the stored set with entries in a single transaction.
func (r *FaqRepository) SaveFaqSet(ctx context.Context, entries ...*core.FaqEntry) error {
	if err := core.ValidateFaqSet(entries); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		// Drop the previous set, including its order index
		stale := keysWithPrefix(tx, []byte(faqRecordPrefix))
		stale = append(stale, keysWithPrefix(tx, []byte(faqOrderPrefix))...)
		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		for i, entry := range entries {
			if err := tx.Set(makeFaqRecordKey(entry.Id), storage.MarshalFaqEntry(entry)); err != nil {
				return err
			}
			if err := tx.Set(makeFaqOrderKey(i), storage.MarshalID(entry.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetFaqEntry retrieves a single entry by ID.
func (r *FaqRepository) GetFaqEntry(ctx context.Context, id core.ID) (*core.FaqEntry, error) {
	var result *core.FaqEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readFaqEntry(tx, makeFaqRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetFaqEntries retrieves multiple entries by their IDs.
func (r *FaqRepository) GetFaqEntries(ctx context.Context, ids ...core.ID) ([]*core.FaqEntry, error) {
	var result []*core.FaqEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entry, err := r.readFaqEntry(tx, makeFaqRecordKey(id))
			if err != nil {
				return err
			}
			if entry != nil {
				result = append(result, entry)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListFaqEntries walks the order index and returns the set in saved order.
func (r *FaqRepository) ListFaqEntries(ctx context.Context) ([]*core.FaqEntry, error) {
	var result []*core.FaqEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(faqOrderPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				id, unmarshalErr = storage.UnmarshalID(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}

			entry, err := r.readFaqEntry(tx, makeFaqRecordKey(id))
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("%w: order index references missing entry %d", storage.ErrNotFound, id)
			}
			result = append(result, entry)
		}
		return nil
	}, false)
	return result, err
}

// CountFaqEntries returns the number of stored entries.
func (r *FaqRepository) CountFaqEntries(ctx context.Context) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		count = len(keysWithPrefix(tx, []byte(faqOrderPrefix)))
		return nil
	}, false)
	return count, err
}

// readFaqEntry reads an entry from the transaction.
// Returns nil without error when the key is absent.
func (r *FaqRepository) readFaqEntry(tx *badger.Txn, key []byte) (*core.FaqEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.FaqEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalFaqEntry(val)
		return unmarshalErr
	})
	return entry, err
}
