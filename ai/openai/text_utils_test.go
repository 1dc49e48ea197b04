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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRephrased(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "What is your return policy?", expected: "What is your return policy?"},
		{name: "whitespace", input: "  What is your return policy?\n", expected: "What is your return policy?"},
		{name: "double quotes", input: `"How long does shipping take?"`, expected: "How long does shipping take?"},
		{name: "single quotes", input: "'How long does shipping take?'", expected: "How long does shipping take?"},
		{name: "label", input: "Rewritten: How can I track my order?", expected: "How can I track my order?"},
		{name: "label and quotes", input: `rewritten question: "How can I track my order?"`, expected: "How can I track my order?"},
		{name: "unbalanced quote kept", input: `"Do you have a warranty?`, expected: `"Do you have a warranty?`},
		{name: "empty", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanRephrased(tt.input))
		})
	}
}

func TestCleanFormatted(t *testing.T) {
	t.Run("plain answer", func(t *testing.T) {
		assert.Equal(t, "Sure! Returns are free.", cleanFormatted("  Sure! Returns are free. "))
	})

	t.Run("echoed prompt", func(t *testing.T) {
		echoed := buildFormatPrompt("returns?", "Returns are free.") + "\nHappy to help: returns are free!"
		assert.Equal(t, "Returns are free.\nHappy to help: returns are free!", cleanFormatted(echoed))
	})

	t.Run("only the prompt", func(t *testing.T) {
		assert.Equal(t, "", cleanFormatted("Answer in a natural, friendly, clear tone:"))
	})
}

func TestBuildPrompts(t *testing.T) {
	assert.Equal(t, "Make this question clear and formal: refund?", buildRephrasePrompt("refund?"))
	assert.Equal(t,
		"User asked: \"refund?\"\nAnswer in a natural, friendly, clear tone:\nWe offer a 30-day return policy.",
		buildFormatPrompt("refund?", "We offer a 30-day return policy."))
}
