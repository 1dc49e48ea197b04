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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/reembed"
	"github.com/poiesic/faqmatch/storage"
)

const (
	defaultBatchSize  = 16
	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// Pipeline orchestrates loading a FAQ set and embedding its questions.
type Pipeline struct {
	faqRepository       storage.FaqRepository
	embeddingRepository storage.EmbeddingRepository
	embedder            ai.Embedder
	model               string
	embeddingPool       *ants.Pool
	batchSize           int
	maxRetries          int
	retryDelay          time.Duration
	logger              *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithBatchSize sets how many questions are sent to the embedder per call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the attempts and base backoff delay for embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return reembed.ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryDelay = baseDelay
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

// NewPipeline creates a new ingestion pipeline. A nil embedder is allowed:
// the FAQ set is then stored without computing embeddings.
func NewPipeline(
	faqRepository storage.FaqRepository,
	embeddingRepository storage.EmbeddingRepository,
	embedder ai.Embedder,
	model string,
	opts ...Option,
) (*Pipeline, error) {
	if faqRepository == nil {
		return nil, ErrFaqRepositoryRequired
	}
	if embeddingRepository == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if embedder != nil && model == "" {
		return nil, ErrModelRequired
	}

	p := &Pipeline{
		faqRepository:       faqRepository,
		embeddingRepository: embeddingRepository,
		embedder:            embedder,
		model:               model,
		batchSize:           defaultBatchSize,
		maxRetries:          defaultMaxRetries,
		retryDelay:          defaultRetryDelay,
		logger:              slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	if p.embeddingPool == nil {
		pool, err := ants.NewPool(max(runtime.NumCPU()/2, 1))
		if err != nil {
			return nil, err
		}
		p.embeddingPool = pool
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// Report summarizes one ingestion run.
type Report struct {
	Entries  int // entries in the saved set
	Embedded int // questions embedded during this run
	Reused   int // cached vectors that were still current
	Failed   int // questions whose embedding failed
	Removed  int // cached vectors dropped for entries no longer in the set
}

// Ingest replaces the stored FAQ set with entries and brings the embedding
// cache up to date. It returns once every embedding batch has finished.
func (p *Pipeline) Ingest(ctx context.Context, entries []*core.FaqEntry) (*Report, error) {
	previous, err := p.faqRepository.ListFaqEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored entries: %w", err)
	}

	if err := p.faqRepository.SaveFaqSet(ctx, entries...); err != nil {
		return nil, err
	}

	report := &Report{Entries: len(entries)}
	p.logger.Info("faq set saved", "entries", len(entries))

	if p.model == "" {
		return report, nil
	}

	removed := removedIDs(previous, entries)
	if len(removed) > 0 {
		if err := p.embeddingRepository.DeleteEmbeddings(ctx, p.model, removed...); err != nil {
			return nil, fmt.Errorf("failed to drop stale embeddings: %w", err)
		}
		report.Removed = len(removed)
	}

	if p.embedder == nil {
		return report, nil
	}

	stale, err := p.staleEntries(ctx, entries)
	if err != nil {
		return nil, err
	}
	report.Reused = len(entries) - len(stale)
	if len(stale) == 0 {
		return report, nil
	}

	processor := reembed.NewBatchProcessor(p.embeddingRepository, p.embedder, p.model, p.maxRetries, p.retryDelay)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	record := func(batch []*core.FaqEntry, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			p.logger.Error("error embedding faq questions", "entries", len(batch), "err", err)
			report.Failed += len(batch)
			return
		}
		report.Embedded += len(batch)
	}

	for batch := range slices.Chunk(stale, p.batchSize) {
		wg.Add(1)
		submitErr := p.embeddingPool.Submit(func() {
			defer wg.Done()
			record(batch, processor.Process(ctx, batch))
		})
		if submitErr != nil {
			wg.Done()
			record(batch, submitErr)
		}
	}
	wg.Wait()

	p.logger.Info("embedding cache updated",
		"embedded", report.Embedded, "reused", report.Reused,
		"failed", report.Failed, "removed", report.Removed)
	return report, nil
}

// staleEntries returns the entries without a current cached vector.
func (p *Pipeline) staleEntries(ctx context.Context, entries []*core.FaqEntry) ([]*core.FaqEntry, error) {
	ids := make([]core.ID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.Id
	}

	cached, err := p.embeddingRepository.GetEmbeddings(ctx, p.model, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}

	var stale []*core.FaqEntry
	for _, entry := range entries {
		emb, ok := cached[entry.Id]
		if !ok || emb.ContentId != entry.ContentID() || len(emb.Vector) == 0 {
			stale = append(stale, entry)
		}
	}
	return stale, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}

func removedIDs(previous, current []*core.FaqEntry) []core.ID {
	keep := make(map[core.ID]struct{}, len(current))
	for _, entry := range current {
		keep[entry.Id] = struct{}{}
	}
	var removed []core.ID
	for _, entry := range previous {
		if _, ok := keep[entry.Id]; !ok {
			removed = append(removed, entry.Id)
		}
	}
	return removed
}
