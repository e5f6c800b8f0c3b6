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


// Package ingest turns queued documents into indexed ones: it chunks their
// text, embeds the chunks and hands them to the search engine, driven by a
// pool-backed queue worker.
package ingest

import (
	"fmt"
	"strings"
)

const (
	// DefaultChunkSize is the chunk window in words.
	DefaultChunkSize = 512

	// DefaultChunkOverlap is the number of words shared between
	// consecutive chunks.
	DefaultChunkOverlap = 0
)

// ChunkDocument splits a document into fixed-size word windows. Whitespace
// runs, including newlines, collapse to single spaces first. This is a simple
// way of creating chunks and not context-aware. Consecutive chunks share
// overlap words so a model can recognize the previous chunk's tail.
func ChunkDocument(document string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, chunk size), got %d", overlap)
	}

	words := strings.Fields(document)
	if len(words) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}
