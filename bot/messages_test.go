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

package bot

import (
	"testing"

	"github.com/poiesic/faqmatch/core"
	"github.com/stretchr/testify/assert"
)

func TestConfidencePhrase(t *testing.T) {
	tests := []struct {
		confidence float32
		want       string
	}{
		{0.95, "I'm confident this answers your question:"},
		{0.81, "I'm confident this answers your question:"},
		{0.8, "I think this might help:"},
		{0.51, "I think this might help:"},
		{0.5, "This might be relevant to your question:"},
		{0, "This might be relevant to your question:"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidencePhrase(tt.confidence), "confidence %v", tt.confidence)
	}
}

func TestFormatConfidence(t *testing.T) {
	assert.Equal(t, "Confidence: 87.5%", FormatConfidence(0.875))
	assert.Equal(t, "Confidence: 100.0%", FormatConfidence(1))
	assert.Equal(t, "Confidence: 0.0%", FormatConfidence(0))
}

func TestClarificationMessage(t *testing.T) {
	candidates := []*core.Candidate{
		{Entry: &core.FaqEntry{Id: 2, Question: "How long does shipping take?"}, Score: 0.6},
		{Entry: &core.FaqEntry{Id: 3, Question: "Do you offer international shipping?"}, Score: 0.45},
	}

	want := "I found a few possible answers. Which one were you looking for?\n\n" +
		"1. How long does shipping take?\n" +
		"2. Do you offer international shipping?\n\n" +
		"Please respond with the number (1-2) that best matches your question."
	assert.Equal(t, want, ClarificationMessage(candidates))

	assert.Equal(t,
		"Please choose a valid number from the list.\n\n1. How long does shipping take?\n2. Do you offer international shipping?",
		InvalidChoiceMessage(candidates))
}
