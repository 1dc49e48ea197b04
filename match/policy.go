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

// Policy decides between answering, clarifying and reporting no match from a
// ranked candidate list.
type Policy struct {
	// ConfidentScore is the top score at or above which the top candidate is
	// answered regardless of the runner-up.
	ConfidentScore float32
	// AmbiguousScore is the runner-up score above which a non-confident top
	// candidate needs clarification.
	AmbiguousScore float32
	// MaxAlternatives bounds the options offered in a clarification.
	MaxAlternatives int
}

// DefaultPolicy returns thresholds of 0.7 and 0.4 with up to 3 alternatives.
func DefaultPolicy() Policy {
	return Policy{
		ConfidentScore:  0.7,
		AmbiguousScore:  0.4,
		MaxAlternatives: 3,
	}
}

// Validate checks 0 <= AmbiguousScore <= ConfidentScore <= 1 and MaxAlternatives >= 2.
func (p Policy) Validate() error {
	if p.AmbiguousScore < 0 || p.ConfidentScore > 1 || p.AmbiguousScore > p.ConfidentScore {
		return fmt.Errorf("%w: need 0 <= ambiguous (%.2f) <= confident (%.2f) <= 1", ErrInvalidPolicy, p.AmbiguousScore, p.ConfidentScore)
	}
	if p.MaxAlternatives < 2 {
		return fmt.Errorf("%w: max alternatives must be at least 2, got %d", ErrInvalidPolicy, p.MaxAlternatives)
	}
	return nil
}

// Decide maps a ranked list (descending score, one candidate per entry) to a
// MatchResult:
//   - empty: DecisionNoMatch
//   - a single candidate, a top score >= ConfidentScore or a runner-up
//     <= AmbiguousScore: DecisionAnswer with the top candidate
//   - otherwise: DecisionClarify with the top MaxAlternatives candidates
func (p Policy) Decide(ranked []*core.Candidate) *core.MatchResult {
	if len(ranked) == 0 {
		return &core.MatchResult{Decision: core.DecisionNoMatch}
	}

	top := ranked[0]
	limit := min(len(ranked), p.MaxAlternatives)

	if len(ranked) == 1 || top.Score >= p.ConfidentScore || ranked[1].Score <= p.AmbiguousScore {
		return &core.MatchResult{
			Decision:     core.DecisionAnswer,
			Primary:      top,
			Alternatives: window(ranked, 1, limit),
			Confidence:   top.Score,
		}
	}

	return &core.MatchResult{
		Decision:     core.DecisionClarify,
		Alternatives: window(ranked, 0, limit),
		Confidence:   top.Score,
	}
}

// window copies ranked[from:to] so results never alias the caller's list.
func window(ranked []*core.Candidate, from, to int) []*core.Candidate {
	if to <= from {
		return nil
	}
	out := make([]*core.Candidate, to-from)
	copy(out, ranked[from:to])
	return out
}
