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

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of entries sent to the embedder per call
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		ReportInterval: 32,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder recomputes the cached embedding of every stored FAQ entry for
// one embedding model.
type Reembedder struct {
	faqRepo   storage.FaqRepository
	model     string
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	faqRepo storage.FaqRepository,
	embeddingRepo storage.EmbeddingRepository,
	embedder ai.Embedder,
	model string,
	config *Config,
	progress io.Writer,
) (*Reembedder, error) {
	if faqRepo == nil || embeddingRepo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if model == "" {
		return nil, ErrModelRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		faqRepo:   faqRepo,
		model:     model,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(embeddingRepo, embedder, model, config.MaxRetries, config.RetryDelay),
		logger:    slog.Default().With("component", "reembedder", "model", model),
	}, nil
}

// Run embeds every stored entry in batches and replaces its cached vector.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	entries, err := r.faqRepo.ListFaqEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list faq entries: %w", err)
	}

	total := len(entries)
	if total == 0 {
		fmt.Fprintf(r.progress, "No FAQ entries found in database (0 entries)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d entries with %s (batch size: %d)\n",
		total, r.model, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for batch := range slices.Chunk(entries, r.config.BatchSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(batch)
		tracker.Update(processed)
		r.logger.Debug("batch embedded", "processed", processed, "total", total)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d entries in %v\n",
		total, elapsed.Round(time.Millisecond))
	r.logger.Info("reembedding complete", "entries", total, "elapsed", elapsed)
	return nil
}
