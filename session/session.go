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

package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/poiesic/faqmatch/core"
)

var selectionPattern = regexp.MustCompile(`^\d+$`)

// IsSelection reports whether input looks like a numeric clarification choice.
func IsSelection(input string) bool {
	return selectionPattern.MatchString(strings.TrimSpace(input))
}

// Session is one conversation. It implements sync.Locker so a caller can
// serialize whole turns; the clarification slot has its own lock.
type Session struct {
	id      string
	turn    sync.Mutex
	mu      sync.Mutex
	pending *core.PendingClarification
}

// New creates an idle session.
func New(id string) *Session {
	return &Session{id: id}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Lock blocks until no other turn is in progress.
func (s *Session) Lock() {
	s.turn.Lock()
}

// Unlock ends the current turn.
func (s *Session) Unlock() {
	s.turn.Unlock()
}

// Pending returns the pending clarification, or nil.
func (s *Session) Pending() *core.PendingClarification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Hold replaces any pending clarification with p. A nil p clears the slot.
func (s *Session) Hold(p *core.PendingClarification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = p
}

// Clear discards the pending clarification.
func (s *Session) Clear() {
	s.Hold(nil)
}

// Resolve maps a 1-based selection to the chosen candidate and clears the
// pending clarification. Out-of-range or non-numeric input returns
// ErrInvalidClarificationChoice and leaves the pending state unchanged.
func (s *Session) Resolve(input string) (*core.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, ErrNoPendingClarification
	}

	input = strings.TrimSpace(input)
	if !selectionPattern.MatchString(input) {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidClarificationChoice, input)
	}

	n := len(s.pending.Candidates)
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > n {
		return nil, fmt.Errorf("%w: %s is not between 1 and %d", ErrInvalidClarificationChoice, input, n)
	}

	chosen := s.pending.Candidates[choice-1]
	s.pending = nil
	return chosen, nil
}
