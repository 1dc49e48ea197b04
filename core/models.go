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

package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for FAQ entries.
// It is either assigned by the FAQ author or derived from the question text.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FaqEntry is a static question/answer pair with its matching metadata.
// Entries are loaded once and treated as read-only afterwards.
type FaqEntry struct {
	Id       ID
	Question string
	Answer   string
	Category string
	Keywords []string // Authored phrases matched by substring against the raw query
}

// ContentID identifies the text an embedding was computed from.
func (e *FaqEntry) ContentID() ID {
	return IDFromContent(e.Question)
}

// Embedding is a cached, normalized embedding of an entry's question.
type Embedding struct {
	FaqId      ID
	Model      string    // Embedding model that produced Vector
	ContentId  ID        // IDFromContent of the embedded question text
	Vector     []float32 // L2-normalized
	InsertedAt time.Time
}

// Strategy identifies the scorer that produced a candidate.
// Values are ordered by scorer priority.
type Strategy int

const (
	// StrategySemantic is cosine similarity between embeddings.
	StrategySemantic Strategy = iota + 1
	// StrategyKeyword is authored keyword overlap.
	StrategyKeyword
	// StrategyLexicalFallback is bag-of-words Jaccard similarity.
	StrategyLexicalFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategySemantic:
		return "semantic"
	case StrategyKeyword:
		return "keyword"
	case StrategyLexicalFallback:
		return "lexical_fallback"
	default:
		return "unknown"
	}
}

// Candidate is a scored hypothesis that an entry answers the current question.
type Candidate struct {
	Entry           *FaqEntry
	Score           float32
	Strategy        Strategy
	MatchedKeywords []string // Only set for StrategyKeyword
}

// Decision is the outcome of disambiguation.
type Decision int

const (
	// DecisionAnswer means the primary candidate answers the question.
	DecisionAnswer Decision = iota + 1
	// DecisionClarify means the user must pick among the alternatives.
	DecisionClarify
	// DecisionNoMatch means no entry matched.
	DecisionNoMatch
)

func (d Decision) String() string {
	switch d {
	case DecisionAnswer:
		return "answer"
	case DecisionClarify:
		return "clarify"
	case DecisionNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// MatchResult is the structured outcome of matching one question.
type MatchResult struct {
	Decision Decision
	// Primary is set only when Decision is DecisionAnswer.
	Primary *Candidate
	// Alternatives never contains Primary. For DecisionClarify these are the
	// options offered to the user, best first.
	Alternatives []*Candidate
	Confidence   float32
}

// PendingClarification is the per-session state kept while the user is asked
// to choose among candidates.
type PendingClarification struct {
	Question   string
	Candidates []*Candidate
	CreatedAt  time.Time
}

// NewPendingClarification captures the alternatives of a clarify result.
// Returns nil if the result does not ask for clarification.
func NewPendingClarification(question string, result *MatchResult) *PendingClarification {
	if result == nil || result.Decision != DecisionClarify || len(result.Alternatives) == 0 {
		return nil
	}
	candidates := make([]*Candidate, len(result.Alternatives))
	copy(candidates, result.Alternatives)
	return &PendingClarification{
		Question:   question,
		Candidates: candidates,
		CreatedAt:  time.Now().UTC(),
	}
}
