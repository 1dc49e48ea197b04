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

// Package bot turns the match engine into a conversation.
//
// Each call to Bot.Handle is one user turn in one session. A turn either
// resolves a pending clarification ("2") or starts a new match: the question
// is rephrased, matched, and answered, clarified or reported as unmatched.
// Rephrasing and answer formatting are optional and cosmetic; when the model
// is slow or unavailable the raw question and the raw answer are used.
package bot
