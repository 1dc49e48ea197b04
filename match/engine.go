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
	"log/slog"
	"strings"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
)

// Engine matches questions against an Index. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	index      *Index
	policy     Policy
	thresholds Thresholds
	monitor    MatchMonitor
	aggregator *Aggregator
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPolicy sets the disambiguation policy.
// Default is DefaultPolicy().
func WithPolicy(policy Policy) Option {
	return func(e *Engine) error {
		if err := policy.Validate(); err != nil {
			return err
		}
		e.policy = policy
		return nil
	}
}

// WithThresholds sets the scorer inclusion thresholds.
// Default is DefaultThresholds().
func WithThresholds(thresholds Thresholds) Option {
	return func(e *Engine) error {
		if err := thresholds.Validate(); err != nil {
			return err
		}
		e.thresholds = thresholds
		return nil
	}
}

// WithMonitor sets the monitor used by Match.
// Default is a no-op monitor.
func WithMonitor(monitor MatchMonitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// NewEngine creates an engine over index. embedder may be nil, in which case
// matching uses only the keyword and lexical strategies.
func NewEngine(index *Index, embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	e := &Engine{
		index:      index,
		policy:     DefaultPolicy(),
		thresholds: DefaultThresholds(),
		monitor:    &noopMonitor{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	var semantic *SemanticScorer
	if embedder != nil {
		semantic = NewSemanticScorer(embedder, index)
	}
	e.aggregator = NewAggregator(index, semantic, e.thresholds, e.logger)

	return e, nil
}

// Index returns the index the engine matches against.
func (e *Engine) Index() *Index {
	return e.index
}

// Policy returns the engine's disambiguation policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Match scores question and decides how to respond.
// It never returns nil and never fails; an unavailable embedder degrades
// matching to the lexical strategies.
func (e *Engine) Match(ctx context.Context, question string) *core.MatchResult {
	return e.MatchWithMonitor(ctx, question, e.monitor)
}

// MatchWithMonitor is Match with a per-call monitor.
// The monitor receives callbacks at each stage of the matching process.
func (e *Engine) MatchWithMonitor(ctx context.Context, question string, monitor MatchMonitor) *core.MatchResult {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(question)

	var ranked []*core.Candidate
	if strings.TrimSpace(question) != "" {
		ranked = e.aggregator.Aggregate(ctx, question, monitor)
	}

	result := e.policy.Decide(ranked)
	e.logger.Debug("matched question",
		"decision", result.Decision.String(),
		"confidence", result.Confidence,
		"candidates", len(ranked))
	monitor.Finish(result)

	return result
}
