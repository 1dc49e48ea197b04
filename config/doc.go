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

// Package config loads the application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// FAQMATCH_ environment variables. A double underscore separates nesting
// levels, so FAQMATCH_MATCH__CONFIDENT_SCORE sets match.confident_score.
// A .env file in the working directory is read before the environment.
package config
