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


package vector

import "errors"

var (
	// ErrZeroVector indicates a cosine similarity against a zero-norm vector.
	// The similarity is undefined; the comparison fails explicitly rather
	// than letting a NaN reach the sort.
	ErrZeroVector = errors.New("zero vector has no direction")

	// ErrDimensionMismatch indicates two vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorruptIndex indicates a persisted index file exists but cannot be
	// decoded. A missing file loads as an empty index.
	ErrCorruptIndex = errors.New("corrupt vector index file")
)
