// Copyright 2025 The Aurora Q&A Authors
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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/saideep872/aurora-qa/ai"
	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/index"
	"github.com/saideep872/aurora-qa/storage"
)

// LoadStats summarizes one corpus load.
type LoadStats struct {
	Fetched  int // Messages the source returned
	Skipped  int // Messages rejected by validation
	Stored   int // Messages written to the repository
	Embedded int // Messages embedded during this load (cached ones are not re-embedded)
}

// Pipeline loads a corpus from a source, stores it, and computes message
// embeddings in batches across a worker pool. Loading is idempotent:
// messages are content-addressed, and a message that already carries a
// vector is never re-embedded.
type Pipeline struct {
	repository storage.MessageRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	cache      *index.VectorCache
	batchSize  int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many texts go to the embedding backend per call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithVectorCache seeds the given cache with every vector the load produces,
// so the query path never re-embeds corpus messages.
func WithVectorCache(cache *index.VectorCache) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.MessageRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		pool:       pool,
		batchSize:  32,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Load fetches the corpus from the source, stores valid messages, and embeds
// every stored message that does not already have a vector. It blocks until
// all embedding batches complete; the first batch error aborts the load.
func (p *Pipeline) Load(ctx context.Context, source Source) (*LoadStats, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	fetched, err := source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	stats := &LoadStats{Fetched: len(fetched)}

	valid := make([]*core.Message, 0, len(fetched))
	for _, msg := range fetched {
		if err := core.ValidateMessage(msg); err != nil {
			p.logger.Warn("skipping invalid message",
				"source_id", msg.SourceId, "err", err)
			stats.Skipped++
			continue
		}
		valid = append(valid, msg)
	}

	stored, err := p.repository.AddMessages(ctx, valid...)
	if err != nil {
		return nil, err
	}
	stats.Stored = len(stored)

	// Only messages without vectors need the embedding backend. Re-loading
	// an unchanged corpus embeds nothing.
	pending := make([]*core.Message, 0, len(stored))
	for _, msg := range stored {
		if len(msg.Vector) > 0 {
			p.seedCache(msg)
			continue
		}
		pending = append(pending, msg)
	}

	if err := p.embedAll(ctx, pending); err != nil {
		return nil, err
	}
	stats.Embedded = len(pending)

	p.logger.Info("corpus loaded",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"stored", stats.Stored,
		"embedded", stats.Embedded)
	return stats, nil
}

// embedAll partitions the messages into batches, embeds them across the
// worker pool, and writes vectors back to storage.
func (p *Pipeline) embedAll(ctx context.Context, messages []*core.Message) error {
	if len(messages) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(messages); start += p.batchSize {
		end := min(start+p.batchSize, len(messages))
		batch := messages[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				setErr(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			setErr(submitErr)
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, firstErr)
	}
	return nil
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Message) error {
	texts := make([]string, len(batch))
	for i, msg := range batch {
		texts[i] = msg.Text
	}

	p.logger.Debug("embedding batch", "messages", len(texts))
	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
	}

	for i, msg := range batch {
		msg.Vector = vectors[i]
	}

	updated, err := p.repository.UpdateMessages(ctx, batch...)
	if err != nil {
		return err
	}
	for _, msg := range updated {
		p.seedCache(msg)
	}
	return nil
}

func (p *Pipeline) seedCache(msg *core.Message) {
	if p.cache != nil && len(msg.Vector) > 0 {
		p.cache.Put(msg.Id, msg.Vector)
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
