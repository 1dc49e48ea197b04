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

import "fmt"

const rephraseSystemPrompt = `You rewrite customer support questions so they are easy to match against a list of FAQs.
Keep the meaning of the question. Do not answer it. Reply with the rewritten question only.`

const rephrasePromptTemplate = "Make this question clear and formal: %s"

const formatSystemPrompt = `You are a friendly customer support assistant.
Restate the given answer for the customer. Do not add facts, prices, dates or policies that are not in the answer.`

const formatPromptTemplate = "User asked: \"%s\"\nAnswer in a natural, friendly, clear tone:\n%s"

// formatMarker ends the instruction line; models sometimes echo the prompt up to it.
const formatMarker = "tone:"

func buildRephrasePrompt(question string) string {
	return fmt.Sprintf(rephrasePromptTemplate, question)
}

func buildFormatPrompt(question, rawAnswer string) string {
	return fmt.Sprintf(formatPromptTemplate, question, rawAnswer)
}
