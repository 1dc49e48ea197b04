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

import "strings"

var rephraseLabels = []string{"rewritten question:", "rewritten:", "question:"}

// cleanRephrased strips the decoration small models add around a rewritten
// question: surrounding whitespace, a leading label and surrounding quotes.
func cleanRephrased(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, label := range rephraseLabels {
		if strings.HasPrefix(lower, label) {
			s = strings.TrimSpace(s[len(label):])
			break
		}
	}
	return trimQuotes(s)
}

// cleanFormatted keeps only the text after the prompt marker when the model
// echoed the prompt.
func cleanFormatted(s string) string {
	if i := strings.LastIndex(s, formatMarker); i >= 0 {
		s = s[i+len(formatMarker):]
	}
	return strings.TrimSpace(s)
}

func trimQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}
