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

import "errors"

var (
	// ErrIndexRequired is returned when an engine is created without an index.
	ErrIndexRequired = errors.New("index required")

	// ErrNoEmbedder is reported when semantic scoring is attempted without an embedder.
	ErrNoEmbedder = errors.New("no embedder configured")

	// ErrDimensionMismatch indicates vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyVector indicates the embedder returned no values.
	ErrEmptyVector = errors.New("empty vector")

	// ErrInvalidPolicy indicates inconsistent disambiguation thresholds.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrInvalidThresholds indicates a scorer threshold outside [0, 1].
	ErrInvalidThresholds = errors.New("invalid thresholds")
)
