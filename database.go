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

// Package faqmatch answers free-form questions from a fixed FAQ set.
//
// Database ties the pieces together: it persists the FAQ set and its
// embedding cache in badger, owns the model provider, and builds match
// engines, bots and reembedders over what is stored.
//
//	db, err := faqmatch.NewDatabase("faqmatch.db")
//	entries, _ := catalog.Default()
//	report, err := db.Load(ctx, entries)
//	engine, err := db.NewEngine(ctx)
//	b, err := db.NewBot(engine)
//	reply, err := b.Handle(ctx, "session-1", "Can I get a refund?")
//
// Without a reachable model the database still works: matching falls back
// to keyword and lexical strategies.
package faqmatch

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/ai/openai"
	"github.com/poiesic/faqmatch/bot"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/ingestion"
	"github.com/poiesic/faqmatch/match"
	"github.com/poiesic/faqmatch/reembed"
	"github.com/poiesic/faqmatch/storage"
	"github.com/poiesic/faqmatch/storage/badger"
)

// ErrNoProvider is returned by operations that need a model provider when
// the database runs without one.
var ErrNoProvider = errors.New("no AI provider configured")

type Database struct {
	backend  *badger.Backend
	faqRepo  storage.FaqRepository
	embRepo  storage.EmbeddingRepository
	provider ai.AIProvider
	model    string
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	disableAI bool
	inMemory  bool
	logger    *slog.Logger
}

// WithAIConfig sets the provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider uses provider instead of creating an OpenAI-compatible one.
// Its embeddings are cached under the configured embedding model name.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithoutAI runs without a model provider.
func WithoutAI() DatabaseOption {
	return func(o *databaseOptions) {
		o.disableAI = true
	}
}

// WithInMemory keeps all data in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger.With("component", "database")

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	db := &Database{
		backend: backend,
		faqRepo: badger.NewFaqRepository(backend),
		embRepo: badger.NewEmbeddingRepository(backend),
		logger:  logger,
	}

	switch {
	case options.disableAI:
		logger.Info("running without AI provider")
	case options.provider != nil:
		db.provider = options.provider
	default:
		provider, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			// Lexical strategies still work without a provider
			logger.Warn("AI provider unavailable, using lexical matching only", "err", err)
		} else {
			db.provider = provider
		}
	}
	if db.provider != nil {
		db.model = options.aiConfig.EmbeddingModel
	}

	return db, nil
}

func (db *Database) Close() error {
	if db.provider != nil {
		if err := db.provider.Close(); err != nil {
			db.logger.Error("error closing AI provider", "err", err)
		}
	}

	if err := db.embRepo.Close(); err != nil {
		db.logger.Error("error closing embedding repository", "err", err)
		return err
	}
	if err := db.faqRepo.Close(); err != nil {
		db.logger.Error("error closing faq repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) FaqRepository() storage.FaqRepository {
	return db.faqRepo
}

func (db *Database) EmbeddingRepository() storage.EmbeddingRepository {
	return db.embRepo
}

// Provider returns the model provider, or nil in lexical-only mode.
func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// EmbeddingModel names the model whose vectors are used, or "" in
// lexical-only mode.
func (db *Database) EmbeddingModel() string {
	return db.model
}

func (db *Database) embedder() ai.Embedder {
	if db.provider == nil {
		return nil
	}
	return db.provider.Embedder()
}

// Load replaces the stored FAQ set with entries and embeds new or changed
// questions.
func (db *Database) Load(ctx context.Context, entries []*core.FaqEntry, opts ...ingestion.Option) (*ingestion.Report, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	pipeline, err := ingestion.NewPipeline(db.faqRepo, db.embRepo, db.embedder(), db.model, opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	return pipeline.Ingest(ctx, entries)
}

// NewEngine builds a match engine over the stored FAQ set.
func (db *Database) NewEngine(ctx context.Context, opts ...match.Option) (*match.Engine, error) {
	index, err := ingestion.BuildIndex(ctx, db.faqRepo, db.embRepo, db.model)
	if err != nil {
		return nil, err
	}
	if index.VectorCount() < index.Len() && db.model != "" {
		db.logger.Warn("some entries have no embedding, run load or reembed",
			"entries", index.Len(), "vectors", index.VectorCount())
	}

	opts = append([]match.Option{match.WithLogger(db.logger)}, opts...)
	return match.NewEngine(index, db.embedder(), opts...)
}

// NewBot creates a bot over engine using the database's provider for
// rephrasing and answer formatting.
func (db *Database) NewBot(engine *match.Engine, opts ...bot.Option) (*bot.Bot, error) {
	if engine == nil {
		return nil, bot.ErrEngineRequired
	}
	opts = append([]bot.Option{bot.WithLogger(db.logger), bot.WithProvider(db.provider)}, opts...)
	return bot.New(engine, opts...)
}

// NewReembedder creates a reembedder for the configured embedding model.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	if db.provider == nil {
		return nil, ErrNoProvider
	}
	return reembed.NewReembedder(db.faqRepo, db.embRepo, db.provider.Embedder(), db.model, config, progress)
}
