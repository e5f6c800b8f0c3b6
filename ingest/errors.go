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


package ingest

import "errors"

var (
	// ErrQueueRequired indicates the worker was built without a queue.
	ErrQueueRequired = errors.New("queue is required")

	// ErrEngineRequired indicates the worker was built without an engine.
	ErrEngineRequired = errors.New("engine is required")

	// ErrEmbedderRequired indicates the worker was built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
