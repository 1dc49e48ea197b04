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

// Package session holds per-conversation state: at most one pending
// clarification per session, kept in a bounded store.
package session

import "errors"

var (
	// ErrInvalidClarificationChoice is returned for a selection that is not
	// a number between 1 and the number of offered candidates.
	ErrInvalidClarificationChoice = errors.New("invalid clarification choice")

	// ErrNoPendingClarification is returned when resolving with nothing pending.
	ErrNoPendingClarification = errors.New("no pending clarification")

	// ErrInvalidStoreSize is returned for a non-positive store capacity.
	ErrInvalidStoreSize = errors.New("session store size must be positive")
)
