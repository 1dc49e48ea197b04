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

import "github.com/poiesic/faqmatch/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder, rephraser and formatter instances.
type MockProvider struct {
	embedder  *MockEmbedder
	rephraser *MockRephraser
	formatter *MockAnswerFormatter
	closed    bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockRephraser()/GetMockFormatter() to access
// concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		rephraser: NewMockRephraser(),
		formatter: NewMockAnswerFormatter(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// Nil services are replaced with defaults.
func NewMockProviderWithServices(embedder *MockEmbedder, rephraser *MockRephraser, formatter *MockAnswerFormatter) ai.AIProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if rephraser == nil {
		rephraser = NewMockRephraser()
	}
	if formatter == nil {
		formatter = NewMockAnswerFormatter()
	}
	return &MockProvider{
		embedder:  embedder,
		rephraser: rephraser,
		formatter: formatter,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Rephraser returns the mock rephraser.
func (p *MockProvider) Rephraser() ai.Rephraser {
	return p.rephraser
}

// AnswerFormatter returns the mock formatter.
func (p *MockProvider) AnswerFormatter() ai.AnswerFormatter {
	return p.formatter
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockRephraser returns the underlying mock rephraser for test assertions.
func (p *MockProvider) GetMockRephraser() *MockRephraser {
	return p.rephraser
}

// GetMockFormatter returns the underlying mock formatter for test assertions.
func (p *MockProvider) GetMockFormatter() *MockAnswerFormatter {
	return p.formatter
}
