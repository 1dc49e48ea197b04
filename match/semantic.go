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

package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
)

// SemanticScorer scores a question by cosine similarity between its fresh
// embedding and the precomputed vectors of an Index.
type SemanticScorer struct {
	embedder ai.Embedder
	index    *Index
	logger   *slog.Logger
}

// NewSemanticScorer creates a scorer. A nil embedder is allowed: Score then
// reports ErrNoEmbedder.
func NewSemanticScorer(embedder ai.Embedder, index *Index) *SemanticScorer {
	return &SemanticScorer{
		embedder: embedder,
		index:    index,
		logger:   slog.Default().With("component", "semantic-scorer"),
	}
}

// Score returns a candidate for every entry whose similarity exceeds threshold,
// in set order. Entries without a vector are skipped and an index with no
// vectors yields no candidates without calling the embedder.
//
// Embedder failures, empty vectors and dimension mismatches yield no
// candidates and an error wrapping ai.ErrProviderUnavailable.
func (s *SemanticScorer) Score(ctx context.Context, question string, threshold float32) ([]*core.Candidate, error) {
	if s.index == nil || s.index.VectorCount() == 0 {
		return nil, nil
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, ErrNoEmbedder)
	}

	vec, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, ErrEmptyVector)
	}
	if len(vec) != s.index.Dimension() {
		return nil, fmt.Errorf("%w: %w: query has %d values, index has %d",
			ai.ErrProviderUnavailable, ErrDimensionMismatch, len(vec), s.index.Dimension())
	}
	query := NormalizeVector(vec)

	var candidates []*core.Candidate
	for i, entry := range s.index.entries {
		faqVec := s.index.vectors[i]
		if faqVec == nil {
			continue
		}
		score := Dot(query, faqVec)
		if score > threshold {
			candidates = append(candidates, &core.Candidate{
				Entry:    entry,
				Score:    score,
				Strategy: core.StrategySemantic,
			})
		}
	}

	s.logger.Debug("semantic scoring complete", "candidates", len(candidates))
	return candidates, nil
}
