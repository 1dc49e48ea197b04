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

package ingestion

import (
	"context"
	"fmt"

	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/match"
	"github.com/poiesic/faqmatch/storage"
)

// BuildIndex loads the stored FAQ set and the current cached vectors of model
// and prepares them for matching. Vectors whose question text changed since
// they were computed are left out. An empty model builds a lexical-only index.
func BuildIndex(ctx context.Context, faqRepository storage.FaqRepository, embeddingRepository storage.EmbeddingRepository, model string) (*match.Index, error) {
	entries, err := faqRepository.ListFaqEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list faq entries: %w", err)
	}

	vectors := make(map[core.ID][]float32, len(entries))
	if model != "" && embeddingRepository != nil && len(entries) > 0 {
		ids := make([]core.ID, len(entries))
		for i, entry := range entries {
			ids[i] = entry.Id
		}
		cached, err := embeddingRepository.GetEmbeddings(ctx, model, ids...)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedding cache: %w", err)
		}
		for _, entry := range entries {
			if emb, ok := cached[entry.Id]; ok && emb.ContentId == entry.ContentID() {
				vectors[entry.Id] = emb.Vector
			}
		}
	}

	return match.NewIndex(entries, vectors)
}
