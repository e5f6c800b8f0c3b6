// Copyright 2026 Poiesic Systems
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


// Package ai provides abstractions for the embedding services used by
// Searchit.
//
// The package defines two interfaces: Embedder, which turns text into
// vectors, and Provider, which manages an Embedder's lifecycle. The search
// engine and ingestion worker depend on these abstractions rather than on a
// concrete implementation.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with no external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can inject behavior and inspect call counts.
package ai
