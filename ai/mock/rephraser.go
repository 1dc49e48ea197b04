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

package mock

import (
	"context"
	"sync"
)

// MockRephraser is a test double for ai.Rephraser.
// By default it returns the question unchanged.
type MockRephraser struct {
	// RephraseFunc is called by Rephrase if set.
	RephraseFunc func(ctx context.Context, question string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockRephraser creates a mock rephraser that echoes its input.
func NewMockRephraser() *MockRephraser {
	return &MockRephraser{}
}

// WithRephraseFunc sets RephraseFunc and returns the rephraser for chaining.
func (m *MockRephraser) WithRephraseFunc(fn func(ctx context.Context, question string) (string, error)) *MockRephraser {
	m.RephraseFunc = fn
	return m
}

// Rephrase returns the question, or the result of RephraseFunc.
func (m *MockRephraser) Rephrase(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.RephraseFunc != nil {
		return m.RephraseFunc(ctx, question)
	}
	return question, nil
}

func (m *MockRephraser) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockRephraser) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.RephraseFunc = nil
}
