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

import "strings"

// Jaccard returns |A ∩ B| / |A ∪ B| over the token sets of a and b.
// Returns 0 when both are empty.
func Jaccard(a, b []string) float32 {
	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, token := range b {
		setB[token] = struct{}{}
	}

	union := len(setA)
	intersection := 0
	for token := range setB {
		if _, ok := setA[token]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float32(intersection) / float32(union)
}

// KeywordOverlap returns the fraction of keywords that occur, case-insensitively,
// as substrings of the raw question, and the matched keywords in keyword order.
// Returns 0 and nil when there are no keywords.
func KeywordOverlap(question string, keywords []string) (float32, []string) {
	if len(keywords) == 0 {
		return 0, nil
	}

	lowered := strings.ToLower(question)
	var matched []string
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}
	return float32(len(matched)) / float32(len(keywords)), matched
}
