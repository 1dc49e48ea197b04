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
	"fmt"

	"github.com/poiesic/faqmatch/core"
)

// Index is an immutable view of a FAQ set prepared for scoring: entries in
// set order with their normalized question tokens and unit vectors.
// It is safe for concurrent use.
type Index struct {
	entries []*core.FaqEntry
	tokens  [][]string
	vectors [][]float32 // parallel to entries; nil when no vector is known
	dim     int
	nvec    int
}

// NewIndex validates entries and prepares them for matching. Vectors are
// keyed by entry id, copied and normalized; vectors for unknown ids and empty
// vectors are ignored. All vectors must have the same dimension.
func NewIndex(entries []*core.FaqEntry, vectors map[core.ID][]float32) (*Index, error) {
	if err := core.ValidateFaqSet(entries); err != nil {
		return nil, err
	}

	idx := &Index{
		entries: make([]*core.FaqEntry, len(entries)),
		tokens:  make([][]string, len(entries)),
		vectors: make([][]float32, len(entries)),
	}
	copy(idx.entries, entries)

	for i, entry := range entries {
		idx.tokens[i] = Normalize(entry.Question)

		vec := vectors[entry.Id]
		if len(vec) == 0 {
			continue
		}
		if idx.dim == 0 {
			idx.dim = len(vec)
		} else if len(vec) != idx.dim {
			return nil, fmt.Errorf("%w: entry %d has %d values, expected %d", ErrDimensionMismatch, entry.Id, len(vec), idx.dim)
		}
		idx.vectors[i] = NormalizeVector(vec)
		idx.nvec++
	}

	return idx, nil
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Entries returns the entries in set order.
func (x *Index) Entries() []*core.FaqEntry {
	out := make([]*core.FaqEntry, len(x.entries))
	copy(out, x.entries)
	return out
}

// Dimension returns the vector dimension, or 0 if the index has no vectors.
func (x *Index) Dimension() int {
	return x.dim
}

// VectorCount returns how many entries have a vector.
func (x *Index) VectorCount() int {
	return x.nvec
}
