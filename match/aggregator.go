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
	"slices"

	"github.com/poiesic/faqmatch/core"
)

// Thresholds are the exclusive lower bounds a candidate score must exceed
// for each strategy.
type Thresholds struct {
	Semantic float32
	Keyword  float32
	Lexical  float32
}

// DefaultThresholds returns 0.3 for semantic, 0 for keyword and 0.2 for the
// lexical fallback.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Semantic: 0.3,
		Keyword:  0,
		Lexical:  0.2,
	}
}

// Validate checks that every threshold lies in [0, 1].
func (t Thresholds) Validate() error {
	checks := []struct {
		name  string
		value float32
	}{
		{"semantic", t.Semantic},
		{"keyword", t.Keyword},
		{"lexical", t.Lexical},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%w: %s threshold %.2f outside [0, 1]", ErrInvalidThresholds, c.name, c.value)
		}
	}
	return nil
}

// Aggregator runs the scorers over an Index and produces the ranked,
// deduplicated candidate list.
type Aggregator struct {
	index      *Index
	semantic   *SemanticScorer
	thresholds Thresholds
	logger     *slog.Logger
}

// NewAggregator creates an aggregator. semantic may be nil, in which case
// only the lexical strategies run.
func NewAggregator(index *Index, semantic *SemanticScorer, thresholds Thresholds, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		index:      index,
		semantic:   semantic,
		thresholds: thresholds,
		logger:     logger,
	}
}

// Aggregate scores question with every strategy and returns at most one
// candidate per entry, sorted by descending score. Exact ties keep strategy
// priority, then set order. Semantic failures are logged, reported to the
// monitor and otherwise ignored.
func (a *Aggregator) Aggregate(ctx context.Context, question string, monitor MatchMonitor) []*core.Candidate {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	var semantic []*core.Candidate
	if a.semantic != nil {
		var err error
		semantic, err = a.semantic.Score(ctx, question, a.thresholds.Semantic)
		if err != nil {
			a.logger.Warn("semantic scoring failed, continuing with lexical strategies", "err", err)
			monitor.SemanticError(err)
			semantic = nil
		}
	}
	monitor.AfterSemantic(semantic)

	keyword := a.keywordCandidates(question)
	monitor.AfterKeyword(keyword)

	var fallback []*core.Candidate
	if len(semantic)+len(keyword) == 0 {
		fallback = a.lexicalCandidates(question)
		monitor.AfterFallback(fallback)
	}

	ranked := dedupe(semantic, keyword, fallback)
	slices.SortStableFunc(ranked, func(x, y *core.Candidate) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return 0
		}
	})
	monitor.AfterRanking(ranked)

	return ranked
}

func (a *Aggregator) keywordCandidates(question string) []*core.Candidate {
	var candidates []*core.Candidate
	for _, entry := range a.index.entries {
		score, matched := KeywordOverlap(question, entry.Keywords)
		if score > a.thresholds.Keyword {
			candidates = append(candidates, &core.Candidate{
				Entry:           entry,
				Score:           score,
				Strategy:        core.StrategyKeyword,
				MatchedKeywords: matched,
			})
		}
	}
	return candidates
}

func (a *Aggregator) lexicalCandidates(question string) []*core.Candidate {
	tokens := Normalize(question)
	if len(tokens) == 0 {
		return nil
	}

	var candidates []*core.Candidate
	for i, entry := range a.index.entries {
		score := Jaccard(tokens, a.index.tokens[i])
		if score > a.thresholds.Lexical {
			candidates = append(candidates, &core.Candidate{
				Entry:    entry,
				Score:    score,
				Strategy: core.StrategyLexicalFallback,
			})
		}
	}
	return candidates
}

// dedupe keeps the highest-scoring candidate per entry id. The survivor takes
// the position of the entry's first candidate; on an exact tie the earlier
// candidate wins.
func dedupe(groups ...[]*core.Candidate) []*core.Candidate {
	var out []*core.Candidate
	pos := make(map[core.ID]int)
	for _, group := range groups {
		for _, c := range group {
			i, seen := pos[c.Entry.Id]
			if !seen {
				pos[c.Entry.Id] = len(out)
				out = append(out, c)
				continue
			}
			if c.Score > out[i].Score {
				out[i] = c
			}
		}
	}
	return out
}
