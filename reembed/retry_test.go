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
	"errors"
	"testing"
	"time"

	"github.com/poiesic/faqmatch/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyEmbedder fails the first failures batch calls, then embeds normally.
func flakyEmbedder(failures int) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls <= failures {
			return nil, errors.New("embedding service unavailable")
		}
		return unnormalized(ctx, texts)
	}
	return embedder
}

func TestRetryWithBackoff_InvalidAttempts(t *testing.T) {
	for _, attempts := range []int{0, -1} {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return nil
		}, attempts, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
		assert.Zero(t, calls)
	}
}

func TestRetryWithBackoff_CanceledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	}, 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryWithBackoff_DelayDoubles(t *testing.T) {
	var stamps []time.Time
	err := RetryWithBackoff(context.Background(), func() error {
		stamps = append(stamps, time.Now())
		return errors.New("down")
	}, 3, 20*time.Millisecond)
	require.Error(t, err)
	require.Len(t, stamps, 3)

	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
}

func TestBatchProcessor_RetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	entries := makeEntries(3)

	t.Run("succeeds once the embedder recovers", func(t *testing.T) {
		_, embRepo := setupTestDB(t)
		embedder := flakyEmbedder(2)
		processor := NewBatchProcessor(embRepo, embedder, testModel, 3, time.Millisecond)

		require.NoError(t, processor.Process(ctx, entries))
		assert.Equal(t, 3, embedder.CallCount())

		stored, err := embRepo.GetEmbeddings(ctx, testModel, 1, 2, 3)
		require.NoError(t, err)
		assert.Len(t, stored, 3)
	})

	t.Run("gives up after max attempts and stores nothing", func(t *testing.T) {
		_, embRepo := setupTestDB(t)
		embedder := flakyEmbedder(3)
		processor := NewBatchProcessor(embRepo, embedder, testModel, 3, time.Millisecond)

		err := processor.Process(ctx, entries)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Contains(t, err.Error(), "embedding service unavailable")
		assert.Equal(t, 3, embedder.CallCount())

		stored, err := embRepo.GetEmbeddings(ctx, testModel, 1, 2, 3)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("cancellation interrupts the backoff", func(t *testing.T) {
		_, embRepo := setupTestDB(t)
		cancelCtx, cancel := context.WithCancel(ctx)
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			cancel()
			return nil, errors.New("embedding service unavailable")
		}
		processor := NewBatchProcessor(embRepo, embedder, testModel, 5, time.Hour)

		start := time.Now()
		err := processor.Process(cancelCtx, entries)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Minute)
		assert.Equal(t, 1, embedder.CallCount())
	})
}
