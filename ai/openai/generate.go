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
	"strings"

	"github.com/poiesic/faqmatch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// newChatClient creates the chat completion client shared by the rephraser
// and the answer formatter.
func newChatClient(config *ai.Config) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken("none"),
		openai.WithModel(config.GenerationModel),
	)
}

// generate sends a system and a user message and returns the first choice.
// Failures and empty output are wrapped with ai.ErrProviderUnavailable.
func generate(ctx context.Context, client llms.Model, system, prompt string, maxTokens int) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
	}

	if len(response.Choices) < 1 || strings.TrimSpace(response.Choices[0].Content) == "" {
		return "", fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, ErrEmptyResponse)
	}

	return response.Choices[0].Content, nil
}
