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
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength is the shortest token kept by Normalize.
const minTokenLength = 3

// Normalize lowercases text, removes every character that is not a letter,
// digit or whitespace, splits on whitespace and drops tokens of two
// characters or fewer. Letters and digits are Unicode classes, so accented
// words survive. Order and duplicates are preserved.
func Normalize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)

	words := strings.Fields(cleaned)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) >= minTokenLength {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
