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

// Package match scores a user question against a FAQ set and decides whether
// to answer, ask for clarification or report no match.
//
// Three strategies produce candidates, in priority order:
//   - Semantic: dot product of normalized embeddings, threshold 0.3
//   - Keyword: share of an entry's authored keywords found in the raw question
//   - Lexical fallback: Jaccard similarity of normalized tokens, threshold 0.2,
//     only consulted when the first two produce nothing
//
// Candidates are deduplicated per entry keeping the highest score, ranked by
// descending score and handed to a Policy. The Engine never returns an error
// for a question: a failing embedder degrades matching to the lexical
// strategies.
package match
