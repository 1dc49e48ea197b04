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

package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/match"
	"github.com/poiesic/faqmatch/storage"
)

// BatchProcessor embeds the questions of a batch of FAQ entries and stores
// the normalized vectors in the embedding cache.
type BatchProcessor struct {
	repo           storage.EmbeddingRepository
	embedder       ai.Embedder
	model          string
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// model: name under which vectors are cached
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.EmbeddingRepository, embedder ai.Embedder, model string, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		model:          model,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of entries and stores them.
// Vectors are normalized before they are stored so a dot product is a cosine
// similarity.
func (bp *BatchProcessor) Process(ctx context.Context, entries []*core.FaqEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Question
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(entries) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(vectors))
	}

	embeddings := make([]*core.Embedding, len(entries))
	for i, entry := range entries {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("%w: entry %d", ErrEmptyEmbedding, entry.Id)
		}
		embeddings[i] = &core.Embedding{
			FaqId:     entry.Id,
			Model:     bp.model,
			ContentId: entry.ContentID(),
			Vector:    match.NormalizeVector(vectors[i]),
		}
	}

	if err := bp.repo.PutEmbeddings(ctx, embeddings...); err != nil {
		return fmt.Errorf("failed to store embeddings: %w", err)
	}
	return nil
}
