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

import "errors"

var (
	// ErrInvalidFaqEntry indicates a FaqEntry failed validation.
	ErrInvalidFaqEntry = errors.New("invalid faq entry")

	// ErrInvalidFaqSet indicates a FAQ set failed validation.
	ErrInvalidFaqSet = errors.New("invalid faq set")

	// ErrEmptyQuestion indicates the Question field is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyAnswer indicates the Answer field is empty.
	ErrEmptyAnswer = errors.New("answer cannot be empty")

	// ErrMissingID indicates an entry has no ID.
	ErrMissingID = errors.New("entry id cannot be zero")

	// ErrEmptyKeyword indicates a blank keyword, which would match every question.
	ErrEmptyKeyword = errors.New("keyword cannot be blank")

	// ErrDuplicateFaqId indicates two entries in a set share an ID.
	ErrDuplicateFaqId = errors.New("duplicate faq id")
)
