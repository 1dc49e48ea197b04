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

// AnswerFormatter implements ai.AnswerFormatter using OpenAI-compatible chat APIs.
type AnswerFormatter struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

func newAnswerFormatter(client llms.Model, config *ai.Config) *AnswerFormatter {
	return &AnswerFormatter{
		client:    client,
		maxTokens: config.MaxTokens,
		logger:    slog.Default().With("component", "openai-formatter"),
	}
}

// NewAnswerFormatter creates a new answer formatter using the provided configuration.
//
// Returns ai.AnswerFormatter interface to enforce abstraction.
func NewAnswerFormatter(config *ai.Config) (ai.AnswerFormatter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newAnswerFormatter(client, config), nil
}

// Format restates rawAnswer in a friendly tone for question.
func (f *AnswerFormatter) Format(ctx context.Context, question, rawAnswer string) (string, error) {
	f.logger.Debug("formatting answer", "length", len(rawAnswer))

	text, err := generate(ctx, f.client, formatSystemPrompt, buildFormatPrompt(question, rawAnswer), f.maxTokens)
	if err != nil {
		f.logger.Warn("failed to format answer", "err", err)
		return "", err
	}

	formatted := cleanFormatted(text)
	if formatted == "" {
		return "", fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, ErrEmptyResponse)
	}
	return formatted, nil
}
