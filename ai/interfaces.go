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

package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Rephraser rewrites a user question into a clearer, more formal form before
// it is matched.
type Rephraser interface {
	// Rephrase returns the rewritten question.
	// Returns an error if generation fails. Callers fall back to the raw question.
	Rephrase(ctx context.Context, question string) (string, error)
}

// AnswerFormatter polishes a stored answer for presentation. Formatting is
// cosmetic: it must not change which entry was selected.
type AnswerFormatter interface {
	// Format returns rawAnswer restated for the question that was asked.
	// Returns an error if generation fails. Callers fall back to rawAnswer.
	Format(ctx context.Context, question, rawAnswer string) (string, error)
}

// AIProvider aggregates all AI services needed by the bot.
// This allows for easy swapping of AI backends (OpenAI, local models, etc.)
// and simplifies testing by providing a single point of mocking.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Rephraser returns the question rewriting service.
	Rephraser() Rephraser

	// AnswerFormatter returns the answer polishing service.
	AnswerFormatter() AnswerFormatter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
