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

// MockAnswerFormatter is a test double for ai.AnswerFormatter.
// By default it returns the raw answer unchanged.
type MockAnswerFormatter struct {
	// FormatFunc is called by Format if set.
	FormatFunc func(ctx context.Context, question, rawAnswer string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockAnswerFormatter creates a mock formatter that echoes the raw answer.
func NewMockAnswerFormatter() *MockAnswerFormatter {
	return &MockAnswerFormatter{}
}

// WithFormatFunc sets FormatFunc and returns the formatter for chaining.
func (m *MockAnswerFormatter) WithFormatFunc(fn func(ctx context.Context, question, rawAnswer string) (string, error)) *MockAnswerFormatter {
	m.FormatFunc = fn
	return m
}

// Format returns rawAnswer, or the result of FormatFunc.
func (m *MockAnswerFormatter) Format(ctx context.Context, question, rawAnswer string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.FormatFunc != nil {
		return m.FormatFunc(ctx, question, rawAnswer)
	}
	return rawAnswer, nil
}

func (m *MockAnswerFormatter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockAnswerFormatter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.FormatFunc = nil
}
