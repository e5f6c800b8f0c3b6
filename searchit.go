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


// Package searchit is a self-hosted hybrid document retrieval engine. It
// combines BM25 keyword ranking with exact cosine vector similarity and
// fuses the two with weighted reciprocal rank fusion. Open wires the
// indexes, document store and ingestion queue under one data directory.
package searchit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/searchit/ai"
	"github.com/poiesic/searchit/ai/openai"
	"github.com/poiesic/searchit/engine"
	"github.com/poiesic/searchit/fts"
	"github.com/poiesic/searchit/ingest"
	"github.com/poiesic/searchit/queue"
	"github.com/poiesic/searchit/store"
	storebadger "github.com/poiesic/searchit/store/badger"
	"github.com/poiesic/searchit/vector"
)

// Backend names accepted by WithQueueBackend and WithStoreBackend.
const (
	FileBackend   = "file"
	SQLiteBackend = "sqlite"
	BadgerBackend = "badger"
)

// Searchit owns the wired retrieval stack for one data directory.
type Searchit struct {
	engine   *engine.Engine
	queue    queue.Queue
	sources  store.Store
	provider ai.Provider
	logger   *slog.Logger
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	queueBackend string
	storeBackend string
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *openOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a pre-built embedding provider instead of the
// OpenAI-compatible default. The facade takes ownership and closes it.
func WithProvider(provider ai.Provider) Option {
	return func(o *openOptions) {
		o.provider = provider
	}
}

// WithQueueBackend selects the ingestion queue backend, FileBackend (default)
// or SQLiteBackend.
func WithQueueBackend(backend string) Option {
	return func(o *openOptions) {
		o.queueBackend = backend
	}
}

// WithStoreBackend selects the document store backend, FileBackend (default)
// or BadgerBackend.
func WithStoreBackend(backend string) Option {
	return func(o *openOptions) {
		o.storeBackend = backend
	}
}

// Open wires indexes, store, queue and embedding provider under dataDir and
// loads the persisted index state.
func Open(dataDir string, opts ...Option) (*Searchit, error) {
	options := &openOptions{
		aiConfig:     ai.DefaultConfig(),
		queueBackend: FileBackend,
		storeBackend: FileBackend,
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	var sources store.Store
	switch options.storeBackend {
	case FileBackend:
		fileStore, err := store.NewFileStore(filepath.Join(dataDir, "sources"))
		if err != nil {
			return nil, err
		}
		sources = fileStore
	case BadgerBackend:
		backend, err := storebadger.OpenBackend(filepath.Join(dataDir, "store.db"), false)
		if err != nil {
			return nil, err
		}
		badgerStore, err := storebadger.NewStore(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		sources = badgerStore
	default:
		return nil, fmt.Errorf("unknown store backend %q", options.storeBackend)
	}

	var q queue.Queue
	var err error
	switch options.queueBackend {
	case FileBackend:
		q, err = queue.NewFileQueue(filepath.Join(dataDir, "queue"))
	case SQLiteBackend:
		q, err = queue.NewSQLiteQueue(filepath.Join(dataDir, "queue.db"))
	default:
		err = fmt.Errorf("unknown queue backend %q", options.queueBackend)
	}
	if err != nil {
		sources.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			q.Close()
			sources.Close()
			return nil, err
		}
	}

	eng, err := engine.NewEngine(
		fts.NewIndex(filepath.Join(dataDir, "fts")),
		vector.NewIndex(filepath.Join(dataDir, "vector")),
		sources,
		provider.Embedder(),
	)
	if err == nil {
		err = eng.Load()
	}
	if err != nil {
		provider.Close()
		q.Close()
		sources.Close()
		return nil, err
	}

	return &Searchit{
		engine:   eng,
		queue:    q,
		sources:  sources,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Engine returns the retrieval engine.
func (s *Searchit) Engine() *engine.Engine {
	return s.engine
}

// Queue returns the ingestion queue.
func (s *Searchit) Queue() queue.Queue {
	return s.queue
}

// NewWorker creates an ingestion worker over the facade's queue and engine.
func (s *Searchit) NewWorker(opts ...ingest.Option) (*ingest.Worker, error) {
	return ingest.NewWorker(s.queue, s.engine, s.provider.Embedder(), opts...)
}

// Close persists the indexes and releases every backend.
func (s *Searchit) Close() error {
	if err := s.engine.Save(); err != nil {
		s.logger.Error("error persisting indexes", "err", err)
		return err
	}

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing embedding provider", "err", err)
	}
	if err := s.queue.Close(); err != nil {
		s.logger.Error("error closing queue", "err", err)
		return err
	}
	if err := s.sources.Close(); err != nil {
		s.logger.Error("error closing document store", "err", err)
		return err
	}
	return nil
}
