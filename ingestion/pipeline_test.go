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
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/faqmatch/ai/mock"
	"github.com/poiesic/faqmatch/catalog"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/storage"
	"github.com/poiesic/faqmatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "test-embed"

func setupTestRepositories(t *testing.T) (storage.FaqRepository, storage.EmbeddingRepository) {
	faqRepo, embRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		embRepo.Close()
		faqRepo.Close()
		backend.Close()
	})
	return faqRepo, embRepo
}

func defaultEntries(t *testing.T) []*core.FaqEntry {
	entries, err := catalog.Default()
	require.NoError(t, err)
	return entries
}

func newTestPipeline(t *testing.T, faqRepo storage.FaqRepository, embRepo storage.EmbeddingRepository, embedder *mock.MockEmbedder, opts ...Option) *Pipeline {
	var p *Pipeline
	var err error
	if embedder == nil {
		p, err = NewPipeline(faqRepo, embRepo, nil, testModel, opts...)
	} else {
		p, err = NewPipeline(faqRepo, embRepo, embedder, testModel, opts...)
	}
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestNewPipeline_Validation(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	embedder := mock.NewMockEmbedder()

	_, err := NewPipeline(nil, embRepo, embedder, testModel)
	assert.ErrorIs(t, err, ErrFaqRepositoryRequired)

	_, err = NewPipeline(faqRepo, nil, embedder, testModel)
	assert.ErrorIs(t, err, ErrEmbeddingRepositoryRequired)

	_, err = NewPipeline(faqRepo, embRepo, embedder, "")
	assert.ErrorIs(t, err, ErrModelRequired)

	_, err = NewPipeline(faqRepo, embRepo, embedder, testModel, WithRetry(0, 0))
	assert.Error(t, err)

	p, err := NewPipeline(faqRepo, embRepo, nil, "", WithPoolSize(0), WithBatchSize(0), WithLogger(nil))
	require.NoError(t, err)
	defer p.Release()
	assert.Equal(t, 1, p.batchSize)
	assert.Equal(t, 1, p.embeddingPool.Cap())
}

func TestIngest_EmbedsEveryEntry(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	ctx := context.Background()
	entries := defaultEntries(t)

	embedder := mock.NewMockEmbedder()
	p := newTestPipeline(t, faqRepo, embRepo, embedder, WithBatchSize(2), WithPoolSize(3))

	report, err := p.Ingest(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, &Report{Entries: 7, Embedded: 7}, report)
	assert.Equal(t, 4, embedder.CallCount(), "7 questions in batches of 2")

	stored, err := faqRepo.ListFaqEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, stored)

	index, err := BuildIndex(ctx, faqRepo, embRepo, testModel)
	require.NoError(t, err)
	assert.Equal(t, 7, index.Len())
	assert.Equal(t, 7, index.VectorCount())
	assert.Equal(t, mock.DefaultDimension, index.Dimension())
}

func TestIngest_ReusesCurrentVectors(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	ctx := context.Background()
	entries := defaultEntries(t)

	embedder := mock.NewMockEmbedder()
	p := newTestPipeline(t, faqRepo, embRepo, embedder)

	_, err := p.Ingest(ctx, entries)
	require.NoError(t, err)
	embedder.Reset()

	t.Run("unchanged set embeds nothing", func(t *testing.T) {
		report, err := p.Ingest(ctx, entries)
		require.NoError(t, err)
		assert.Equal(t, 7, report.Reused)
		assert.Equal(t, 0, report.Embedded)
		assert.Equal(t, 0, embedder.CallCount())
	})

	t.Run("changed question is re-embedded", func(t *testing.T) {
		changed := make([]*core.FaqEntry, len(entries))
		copy(changed, entries)
		edited := *entries[0]
		edited.Question = "What is your refund and return policy?"
		changed[0] = &edited

		var embedded []string
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			embedded = append(embedded, texts...)
			return [][]float32{{1, 0, 0}}, nil
		}

		report, err := p.Ingest(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Embedded)
		assert.Equal(t, 6, report.Reused)
		assert.Equal(t, []string{edited.Question}, embedded)
	})
}

func TestIngest_RemovesDroppedEntries(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	ctx := context.Background()
	entries := defaultEntries(t)

	p := newTestPipeline(t, faqRepo, embRepo, mock.NewMockEmbedder())

	_, err := p.Ingest(ctx, entries)
	require.NoError(t, err)

	report, err := p.Ingest(ctx, entries[:5])
	require.NoError(t, err)
	assert.Equal(t, 2, report.Removed)
	assert.Equal(t, 5, report.Entries)

	cached, err := embRepo.GetEmbeddings(ctx, testModel, entries[5].Id, entries[6].Id)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestIngest_EmbeddingFailureDoesNotFail(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	ctx := context.Background()
	entries := defaultEntries(t)

	var calls atomic.Int32
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls.Add(1)
		return nil, errors.New("model offline")
	}
	p := newTestPipeline(t, faqRepo, embRepo, embedder, WithRetry(2, 0), WithBatchSize(4))

	report, err := p.Ingest(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 7, report.Failed)
	assert.Equal(t, 0, report.Embedded)
	assert.Equal(t, int32(4), calls.Load(), "two batches, two attempts each")

	index, err := BuildIndex(ctx, faqRepo, embRepo, testModel)
	require.NoError(t, err)
	assert.Equal(t, 7, index.Len())
	assert.Equal(t, 0, index.VectorCount())
}

func TestIngest_CanceledDuringBatch(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	entries := defaultEntries(t)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		cancel()
		return nil, errors.New("model offline")
	}
	p := newTestPipeline(t, faqRepo, embRepo, embedder,
		WithRetry(5, time.Hour), WithBatchSize(len(entries)), WithPoolSize(1))

	start := time.Now()
	report, err := p.Ingest(ctx, entries)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Minute, "backoff must stop on cancel")
	assert.Equal(t, len(entries), report.Failed)
	assert.Equal(t, 0, report.Embedded)
	assert.Equal(t, 1, embedder.CallCount())

	stored, err := faqRepo.CountFaqEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(entries), stored, "the set is saved before embedding starts")
}

func TestIngest_WithoutEmbedder(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	ctx := context.Background()

	p := newTestPipeline(t, faqRepo, embRepo, nil)

	report, err := p.Ingest(ctx, defaultEntries(t))
	require.NoError(t, err)
	assert.Equal(t, &Report{Entries: 7}, report)
}

func TestIngest_InvalidSet(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	embedder := mock.NewMockEmbedder()
	p := newTestPipeline(t, faqRepo, embRepo, embedder)

	_, err := p.Ingest(context.Background(), []*core.FaqEntry{{Id: 1, Question: "", Answer: "x"}})
	assert.ErrorIs(t, err, core.ErrEmptyQuestion)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestBuildIndex(t *testing.T) {
	faqRepo, embRepo := setupTestRepositories(t)
	ctx := context.Background()
	entries := defaultEntries(t)
	require.NoError(t, faqRepo.SaveFaqSet(ctx, entries...))

	t.Run("no model builds lexical index", func(t *testing.T) {
		index, err := BuildIndex(ctx, faqRepo, embRepo, "")
		require.NoError(t, err)
		assert.Equal(t, 7, index.Len())
		assert.Equal(t, 0, index.VectorCount())
	})

	t.Run("stale vectors are skipped", func(t *testing.T) {
		require.NoError(t, embRepo.PutEmbeddings(ctx,
			&core.Embedding{FaqId: entries[0].Id, Model: testModel, ContentId: entries[0].ContentID(), Vector: []float32{1, 0}},
			&core.Embedding{FaqId: entries[1].Id, Model: testModel, ContentId: 12345, Vector: []float32{0, 1}},
		))

		index, err := BuildIndex(ctx, faqRepo, embRepo, testModel)
		require.NoError(t, err)
		assert.Equal(t, 1, index.VectorCount())
		assert.Equal(t, 2, index.Dimension())
	})

	t.Run("empty store", func(t *testing.T) {
		emptyFaq, emptyEmb := setupTestRepositories(t)
		index, err := BuildIndex(ctx, emptyFaq, emptyEmb, testModel)
		require.NoError(t, err)
		assert.Equal(t, 0, index.Len())
	})
}
