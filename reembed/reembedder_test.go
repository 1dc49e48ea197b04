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
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/faqmatch/ai/mock"
	"github.com/poiesic/faqmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(batchSize int) *Config {
	return &Config{
		BatchSize:      batchSize,
		ReportInterval: batchSize,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestNewReembedder_Validation(t *testing.T) {
	faqRepo, embRepo := setupTestDB(t)
	embedder := mock.NewMockEmbedder()

	_, err := NewReembedder(nil, embRepo, embedder, testModel, nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewReembedder(faqRepo, embRepo, nil, testModel, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewReembedder(faqRepo, embRepo, embedder, "", nil, nil)
	assert.ErrorIs(t, err, ErrModelRequired)

	r, err := NewReembedder(faqRepo, embRepo, embedder, testModel, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BatchSize, r.config.BatchSize)
}

func TestReembedder_Run(t *testing.T) {
	faqRepo, embRepo := setupTestDB(t)
	ctx := context.Background()

	entries := makeEntries(10)
	require.NoError(t, faqRepo.SaveFaqSet(ctx, entries...))

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	r, err := NewReembedder(faqRepo, embRepo, embedder, testModel, fastConfig(3), &buf)
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx))

	ids := make([]core.ID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.Id
	}
	stored, err := embRepo.GetEmbeddings(ctx, testModel, ids...)
	require.NoError(t, err)
	require.Len(t, stored, 10)

	for _, emb := range stored {
		var magnitude float32
		for _, v := range emb.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.01, "vector should be normalized")
	}

	assert.Equal(t, 4, embedder.CallCount(), "10 entries in batches of 3")
	output := buf.String()
	assert.Contains(t, output, "Progress:")
	assert.Contains(t, output, "10/10")
	assert.Contains(t, output, "Reembedding complete")
}

func TestReembedder_EmptyDatabase(t *testing.T) {
	faqRepo, embRepo := setupTestDB(t)

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	r, err := NewReembedder(faqRepo, embRepo, embedder, testModel, nil, &buf)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, buf.String(), "0 entries")
	assert.Equal(t, 0, embedder.CallCount())
}

func TestReembedder_ContextCancellation(t *testing.T) {
	faqRepo, embRepo := setupTestDB(t)
	require.NoError(t, faqRepo.SaveFaqSet(context.Background(), makeEntries(10)...))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return unnormalized(ctx, texts)
	}

	r, err := NewReembedder(faqRepo, embRepo, embedder, testModel, fastConfig(3), nil)
	require.NoError(t, err)

	err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	faqRepo, embRepo := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, faqRepo.SaveFaqSet(ctx, makeEntries(1)...))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("persistent error")
	}

	r, err := NewReembedder(faqRepo, embRepo, embedder, testModel, fastConfig(1), nil)
	require.NoError(t, err)

	err = r.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Greater(t, config.BatchSize, 0, "batch size should be positive")
	assert.Greater(t, config.ReportInterval, 0, "report interval should be positive")
	assert.Greater(t, config.MaxRetries, 0, "max retries should be positive")
	assert.Greater(t, config.RetryDelay, time.Duration(0), "retry delay should be positive")
}
