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
	"fmt"
	"strings"

	"github.com/poiesic/faqmatch/core"
)

// FallbackAnswer is shown when no entry matches.
const FallbackAnswer = "I'm sorry, I couldn't find a specific answer to your question. " +
	"Please try rephrasing or contact our support team for more assistance."

const (
	clarificationIntro = "I found a few possible answers. Which one were you looking for?"
	invalidChoiceIntro = "Please choose a valid number from the list."
)

// ConfidencePhrase introduces an answer according to its confidence.
func ConfidencePhrase(confidence float32) string {
	switch {
	case confidence > 0.8:
		return "I'm confident this answers your question:"
	case confidence > 0.5:
		return "I think this might help:"
	default:
		return "This might be relevant to your question:"
	}
}

// FormatConfidence renders a score as a percentage, e.g. "Confidence: 87.5%".
func FormatConfidence(confidence float32) string {
	return fmt.Sprintf("Confidence: %.1f%%", confidence*100)
}

// ClarificationMessage asks the user to pick one of candidates by number.
func ClarificationMessage(candidates []*core.Candidate) string {
	return clarificationIntro + "\n\n" + numberedOptions(candidates) +
		fmt.Sprintf("\n\nPlease respond with the number (1-%d) that best matches your question.", len(candidates))
}

// InvalidChoiceMessage re-prompts after a selection outside the offered range.
func InvalidChoiceMessage(candidates []*core.Candidate) string {
	return invalidChoiceIntro + "\n\n" + numberedOptions(candidates)
}

func answerMessage(confidence float32, answer string) string {
	return ConfidencePhrase(confidence) + "\n\n" + answer
}

func numberedOptions(candidates []*core.Candidate) string {
	var sb strings.Builder
	for i, c := range candidates {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, c.Entry.Question)
	}
	return sb.String()
}
