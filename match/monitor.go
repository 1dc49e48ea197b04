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
	"log/slog"

	"github.com/poiesic/faqmatch/core"
)

// MatchMonitor receives callbacks at each stage of matching one question.
// Implementations shared between engines must be safe for concurrent use.
type MatchMonitor interface {
	Start(question string)
	AfterSemantic(candidates []*core.Candidate)
	SemanticError(err error)
	AfterKeyword(candidates []*core.Candidate)
	AfterFallback(candidates []*core.Candidate)
	AfterRanking(ranked []*core.Candidate)
	Finish(result *core.MatchResult)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterSemantic(_ []*core.Candidate)  {}
func (n *noopMonitor) SemanticError(_ error)              {}
func (n *noopMonitor) AfterKeyword(_ []*core.Candidate)   {}
func (n *noopMonitor) AfterFallback(_ []*core.Candidate)  {}
func (n *noopMonitor) AfterRanking(_ []*core.Candidate)   {}
func (n *noopMonitor) Finish(_ *core.MatchResult)         {}

// LoggingMonitor writes every stage to a logger at debug level.
type LoggingMonitor struct {
	logger *slog.Logger
}

var _ MatchMonitor = (*LoggingMonitor)(nil)

// NewLoggingMonitor creates a monitor logging to logger, or slog.Default() if nil.
func NewLoggingMonitor(logger *slog.Logger) *LoggingMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingMonitor{logger: logger.With("component", "match-monitor")}
}

func (m *LoggingMonitor) Start(question string) {
	m.logger.Debug("matching question", "question", question)
}

func (m *LoggingMonitor) AfterSemantic(candidates []*core.Candidate) {
	m.logger.Debug("semantic candidates", "ids", candidateIDs(candidates))
}

func (m *LoggingMonitor) SemanticError(err error) {
	m.logger.Debug("semantic scoring unavailable", "err", err)
}

func (m *LoggingMonitor) AfterKeyword(candidates []*core.Candidate) {
	m.logger.Debug("keyword candidates", "ids", candidateIDs(candidates))
}

func (m *LoggingMonitor) AfterFallback(candidates []*core.Candidate) {
	m.logger.Debug("lexical fallback candidates", "ids", candidateIDs(candidates))
}

func (m *LoggingMonitor) AfterRanking(ranked []*core.Candidate) {
	for i, c := range ranked {
		m.logger.Debug("ranked candidate", "rank", i+1, "id", c.Entry.Id, "score", c.Score, "strategy", c.Strategy.String())
	}
}

func (m *LoggingMonitor) Finish(result *core.MatchResult) {
	m.logger.Debug("match decision", "decision", result.Decision.String(), "confidence", result.Confidence)
}

func candidateIDs(candidates []*core.Candidate) []core.ID {
	ids := make([]core.ID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.Entry.Id
	}
	return ids
}
