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

package session

import (
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultStoreSize is the default number of sessions kept.
const DefaultStoreSize = 1024

// Store keeps the most recently used sessions. Evicted sessions lose their
// pending clarification.
type Store struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, *Session]
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithStoreLogger sets a custom logger.
// Default is slog.Default().
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a store holding at most size sessions.
func NewStore(size int, opts ...StoreOption) (*Store, error) {
	if size <= 0 {
		return nil, ErrInvalidStoreSize
	}

	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	cache, err := lru.NewWithEvict(size, func(id string, _ *Session) {
		s.logger.Debug("evicted session", "session", id)
	})
	if err != nil {
		return nil, err
	}
	s.cache = cache

	return s, nil
}

// Get returns the session for id, creating it if needed.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(id); ok {
		return sess
	}
	sess := New(id)
	s.cache.Add(id, sess)
	return sess
}

// Remove forgets the session for id.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	return s.cache.Len()
}
