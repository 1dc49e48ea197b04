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

package core

import (
	"fmt"
	"strings"
)

// ValidateFaqEntry checks that an entry can be matched and answered.
func ValidateFaqEntry(entry *FaqEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidFaqEntry)
	}

	if entry.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidFaqEntry, ErrMissingID)
	}

	if strings.TrimSpace(entry.Question) == "" {
		return fmt.Errorf("%w: id %d: %w", ErrInvalidFaqEntry, entry.Id, ErrEmptyQuestion)
	}

	if strings.TrimSpace(entry.Answer) == "" {
		return fmt.Errorf("%w: id %d: %w", ErrInvalidFaqEntry, entry.Id, ErrEmptyAnswer)
	}

	for i, keyword := range entry.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("%w: id %d keyword %d: %w", ErrInvalidFaqEntry, entry.Id, i, ErrEmptyKeyword)
		}
	}

	return nil
}

// ValidateFaqSet validates every entry and checks that IDs are unique.
func ValidateFaqSet(entries []*FaqEntry) error {
	seen := make(map[ID]int, len(entries))
	for i, entry := range entries {
		if err := ValidateFaqEntry(entry); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidFaqSet, i, err)
		}
		if first, ok := seen[entry.Id]; ok {
			return fmt.Errorf("%w: entries %d and %d: %w (%d)", ErrInvalidFaqSet, first, i, ErrDuplicateFaqId, entry.Id)
		}
		seen[entry.Id] = i
	}
	return nil
}
