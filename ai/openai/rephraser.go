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

package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/faqmatch/ai"
	"github.com/tmc/langchaingo/llms"
)

// Rephraser implements ai.Rephraser using OpenAI-compatible chat APIs.
type Rephraser struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

func newRephraser(client llms.Model, config *ai.Config) *Rephraser {
	return &Rephraser{
		client:    client,
		maxTokens: config.MaxTokens,
		logger:    slog.Default().With("component", "openai-rephraser"),
	}
}

// NewRephraser creates a new rephraser using the provided configuration.
//
// Returns ai.Rephraser interface to enforce abstraction.
func NewRephraser(config *ai.Config) (ai.Rephraser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newRephraser(client, config), nil
}

// Rephrase rewrites question into a clear, formal question.
func (r *Rephraser) Rephrase(ctx context.Context, question string) (string, error) {
	r.logger.Debug("rephrasing question", "length", len(question))

	text, err := generate(ctx, r.client, rephraseSystemPrompt, buildRephrasePrompt(question), r.maxTokens)
	if err != nil {
		r.logger.Warn("failed to rephrase question", "err", err)
		return "", err
	}

	rephrased := cleanRephrased(text)
	if rephrased == "" {
		return "", fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, ErrEmptyResponse)
	}

	r.logger.Debug("rephrased question", "original", question, "rephrased", rephrased)
	return rephrased, nil
}
