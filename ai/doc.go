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

// Package ai provides abstractions for the model services used by faqmatch.
//
// The matching core consumes vectors and text from these services and never
// performs inference itself. Three services are defined:
//
//   - Embedder: Generates vector embeddings from text
//   - Rephraser: Rewrites a question into a clearer form before matching
//   - AnswerFormatter: Restates a stored answer in a friendlier tone
//
// AIProvider aggregates them for convenient initialization.
//
// Every service failure is wrapped with ErrProviderUnavailable. Callers are
// expected to degrade rather than fail: matching continues on lexical
// strategies, the raw question is matched, the raw answer is shown.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and assert call counts;
// mock.NewMockProvider returns an interface and exposes GetMockEmbedder,
// GetMockRephraser and GetMockFormatter for assertions.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "How long does shipping take?")
//	question, err := provider.Rephraser().Rephrase(ctx, "shipping how long")
package ai
