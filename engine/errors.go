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


package engine

import "errors"

var (
	// ErrNoKeywordIndex indicates the engine was built without a keyword index.
	ErrNoKeywordIndex = errors.New("keyword index is required")

	// ErrNoVectorIndex indicates the engine was built without a vector index.
	ErrNoVectorIndex = errors.New("vector index is required")

	// ErrNoStore indicates the engine was built without a document store.
	ErrNoStore = errors.New("document store is required")

	// ErrNoEmbedder indicates the engine was built without an embedder.
	ErrNoEmbedder = errors.New("embedder is required")

	// ErrEmptyQuery indicates a search was attempted with an empty query.
	ErrEmptyQuery = errors.New("query must not be empty")
)
