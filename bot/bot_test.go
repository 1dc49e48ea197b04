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

package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/faqmatch/ai/mock"
	"github.com/poiesic/faqmatch/catalog"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/match"
	"github.com/poiesic/faqmatch/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	shippingTime = &core.FaqEntry{Id: 2, Question: "How long does shipping take?", Answer: "3-5 business days."}
	shippingIntl = &core.FaqEntry{Id: 3, Question: "Do you offer international shipping?", Answer: "Yes, to 50 countries."}
	returns      = &core.FaqEntry{Id: 1, Question: "What is your return policy?", Answer: "30 days."}
)

// scriptedMatcher returns a fixed result per question and records calls.
type scriptedMatcher struct {
	mu        sync.Mutex
	results   map[string]*core.MatchResult
	questions []string
}

func (m *scriptedMatcher) Match(ctx context.Context, question string) *core.MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, question)
	if r, ok := m.results[question]; ok {
		return r
	}
	return &core.MatchResult{Decision: core.DecisionNoMatch}
}

func clarifyShipping() *core.MatchResult {
	return &core.MatchResult{
		Decision: core.DecisionClarify,
		Alternatives: []*core.Candidate{
			{Entry: shippingTime, Score: 0.6, Strategy: core.StrategySemantic},
			{Entry: shippingIntl, Score: 0.45, Strategy: core.StrategySemantic},
		},
		Confidence: 0.6,
	}
}

func answerReturns(score float32) *core.MatchResult {
	return &core.MatchResult{
		Decision:   core.DecisionAnswer,
		Primary:    &core.Candidate{Entry: returns, Score: score, Strategy: core.StrategyKeyword},
		Confidence: score,
	}
}

func newScriptedBot(t *testing.T, opts ...Option) (*Bot, *scriptedMatcher) {
	m := &scriptedMatcher{results: map[string]*core.MatchResult{
		"shipping question": clarifyShipping(),
		"refund please":     answerReturns(0.9),
	}}
	b, err := New(m, opts...)
	require.NoError(t, err)
	return b, m
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEngineRequired)

	_, err = New(&scriptedMatcher{}, WithSessionStore(nil))
	assert.ErrorIs(t, err, session.ErrInvalidStoreSize)

	b, err := New(&scriptedMatcher{}, WithProviderTimeout(0), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultProviderTimeout, b.timeout)
	assert.NotNil(t, b.Sessions())
}

func TestHandle_EmptyInput(t *testing.T) {
	b, m := newScriptedBot(t)
	_, err := b.Handle(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, m.questions)
}

func TestHandle_MalformedResults(t *testing.T) {
	b, m := newScriptedBot(t)
	m.results["clarify nothing"] = &core.MatchResult{Decision: core.DecisionClarify, Confidence: 0.5}
	m.results["answer nothing"] = &core.MatchResult{Decision: core.DecisionAnswer, Confidence: 0.9}
	ctx := context.Background()

	for _, q := range []string{"clarify nothing", "answer nothing"} {
		t.Run(q, func(t *testing.T) {
			reply, err := b.Handle(ctx, "s1", q)
			require.NoError(t, err)
			assert.Equal(t, ReplyNoMatch, reply.Kind)
			assert.Equal(t, FallbackAnswer, reply.Text)
			assert.Nil(t, b.Sessions().Get("s1").Pending())
		})
	}
}

func TestHandle_ExposesMatchResult(t *testing.T) {
	b, _ := newScriptedBot(t)
	ctx := context.Background()

	reply, err := b.Handle(ctx, "s1", "shipping question")
	require.NoError(t, err)
	require.NotNil(t, reply.Result)
	assert.Equal(t, core.DecisionClarify, reply.Result.Decision)

	reply, err = b.Handle(ctx, "s1", "1")
	require.NoError(t, err)
	assert.True(t, reply.Selected)
	assert.Nil(t, reply.Result, "a choice does not match")

	reply, err = b.Handle(ctx, "s1", "zzz")
	require.NoError(t, err)
	require.NotNil(t, reply.Result)
	assert.Equal(t, core.DecisionNoMatch, reply.Result.Decision)
}

func TestHandle_Answer(t *testing.T) {
	b, _ := newScriptedBot(t)

	reply, err := b.Handle(context.Background(), "s1", "refund please")
	require.NoError(t, err)
	assert.Equal(t, ReplyAnswer, reply.Kind)
	assert.Equal(t, "I'm confident this answers your question:\n\n30 days.", reply.Text)
	assert.Equal(t, returns, reply.Entry)
	assert.Equal(t, core.StrategyKeyword, reply.Strategy)
	assert.InDelta(t, 0.9, reply.Confidence, 1e-6)
	assert.True(t, reply.ShowsConfidence())
	assert.False(t, reply.Selected)
}

func TestHandle_NoMatch(t *testing.T) {
	b, _ := newScriptedBot(t)

	reply, err := b.Handle(context.Background(), "s1", "xyz qwerty")
	require.NoError(t, err)
	assert.Equal(t, ReplyNoMatch, reply.Kind)
	assert.Equal(t, FallbackAnswer, reply.Text)
	assert.False(t, reply.ShowsConfidence())
}

func TestHandle_ClarificationFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("clarify then valid choice", func(t *testing.T) {
		b, m := newScriptedBot(t)

		reply, err := b.Handle(ctx, "s1", "shipping question")
		require.NoError(t, err)
		assert.Equal(t, ReplyClarification, reply.Kind)
		require.Len(t, reply.Options, 2)
		assert.Equal(t, shippingTime, reply.Options[0].Entry)
		assert.Contains(t, reply.Text, "1. How long does shipping take?")
		assert.NotNil(t, b.Sessions().Get("s1").Pending())

		reply, err = b.Handle(ctx, "s1", "2")
		require.NoError(t, err)
		assert.Equal(t, ReplyAnswer, reply.Kind)
		assert.True(t, reply.Selected)
		assert.Equal(t, shippingIntl, reply.Entry)
		assert.Equal(t, shippingIntl.Answer, reply.Text)
		assert.InDelta(t, 0.45, reply.Confidence, 1e-6)
		assert.Nil(t, b.Sessions().Get("s1").Pending())
		assert.Len(t, m.questions, 1, "selection must not trigger matching")
	})

	t.Run("invalid choices keep pending state", func(t *testing.T) {
		b, _ := newScriptedBot(t)
		_, err := b.Handle(ctx, "s1", "shipping question")
		require.NoError(t, err)
		pending := b.Sessions().Get("s1").Pending()

		for _, input := range []string{"0", "3", "99999999999999999999999"} {
			reply, err := b.Handle(ctx, "s1", input)
			require.NoError(t, err)
			assert.Equal(t, ReplyInvalidChoice, reply.Kind, input)
			assert.Equal(t, InvalidChoiceMessage(pending.Candidates), reply.Text)
			assert.Same(t, pending, b.Sessions().Get("s1").Pending(), input)
		}

		reply, err := b.Handle(ctx, "s1", "1")
		require.NoError(t, err)
		assert.Equal(t, shippingTime, reply.Entry)
	})

	t.Run("non-numeric input discards pending and rematches", func(t *testing.T) {
		b, m := newScriptedBot(t)
		_, err := b.Handle(ctx, "s1", "shipping question")
		require.NoError(t, err)

		reply, err := b.Handle(ctx, "s1", "refund please")
		require.NoError(t, err)
		assert.Equal(t, ReplyAnswer, reply.Kind)
		assert.Equal(t, returns, reply.Entry)
		assert.Nil(t, b.Sessions().Get("s1").Pending())
		assert.Equal(t, []string{"shipping question", "refund please"}, m.questions)
	})

	t.Run("number without pending clarification is a question", func(t *testing.T) {
		b, m := newScriptedBot(t)
		reply, err := b.Handle(ctx, "s1", "2")
		require.NoError(t, err)
		assert.Equal(t, ReplyNoMatch, reply.Kind)
		assert.Equal(t, []string{"2"}, m.questions)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		b, _ := newScriptedBot(t)
		_, err := b.Handle(ctx, "alice", "shipping question")
		require.NoError(t, err)

		reply, err := b.Handle(ctx, "bob", "1")
		require.NoError(t, err)
		assert.Equal(t, ReplyNoMatch, reply.Kind)
		assert.NotNil(t, b.Sessions().Get("alice").Pending())
	})
}

func TestHandle_ProviderCollaborators(t *testing.T) {
	ctx := context.Background()

	t.Run("rephrased question is matched and answer is formatted", func(t *testing.T) {
		rephraser := mock.NewMockRephraser().WithRephraseFunc(func(ctx context.Context, q string) (string, error) {
			return "refund please", nil
		})
		var formatArgs []string
		formatter := mock.NewMockAnswerFormatter().WithFormatFunc(func(ctx context.Context, q, raw string) (string, error) {
			formatArgs = []string{q, raw}
			return "Sure! " + raw, nil
		})
		provider := mock.NewMockProviderWithServices(nil, rephraser, formatter)

		b, m := newScriptedBot(t, WithProvider(provider))
		reply, err := b.Handle(ctx, "s1", "gimme my money back")
		require.NoError(t, err)

		assert.Equal(t, []string{"refund please"}, m.questions)
		assert.Equal(t, "refund please", reply.Question)
		assert.Equal(t, []string{"gimme my money back", "30 days."}, formatArgs)
		assert.Equal(t, "I'm confident this answers your question:\n\nSure! 30 days.", reply.Text)
	})

	t.Run("failures fall back to raw text", func(t *testing.T) {
		rephraser := mock.NewMockRephraser().WithRephraseFunc(func(ctx context.Context, q string) (string, error) {
			return "", errors.New("offline")
		})
		formatter := mock.NewMockAnswerFormatter().WithFormatFunc(func(ctx context.Context, q, raw string) (string, error) {
			return "", fmt.Errorf("wrapped: %w", errors.New("offline"))
		})

		b, m := newScriptedBot(t, WithRephraser(rephraser), WithAnswerFormatter(formatter))
		reply, err := b.Handle(ctx, "s1", "refund please")
		require.NoError(t, err)
		assert.Equal(t, []string{"refund please"}, m.questions)
		assert.Equal(t, "I'm confident this answers your question:\n\n30 days.", reply.Text)
		assert.Equal(t, 1, rephraser.CallCount())
		assert.Equal(t, 1, formatter.CallCount())
	})

	t.Run("empty model output falls back to raw text", func(t *testing.T) {
		rephraser := mock.NewMockRephraser().WithRephraseFunc(func(ctx context.Context, q string) (string, error) {
			return "  ", nil
		})
		formatter := mock.NewMockAnswerFormatter().WithFormatFunc(func(ctx context.Context, q, raw string) (string, error) {
			return "", nil
		})

		b, _ := newScriptedBot(t, WithRephraser(rephraser), WithAnswerFormatter(formatter))
		reply, err := b.Handle(ctx, "s1", "refund please")
		require.NoError(t, err)
		assert.Equal(t, "refund please", reply.Question)
		assert.Equal(t, "I'm confident this answers your question:\n\n30 days.", reply.Text)
	})

	t.Run("slow model is cut off by the provider timeout", func(t *testing.T) {
		rephraser := mock.NewMockRephraser().WithRephraseFunc(func(ctx context.Context, q string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

		b, _ := newScriptedBot(t, WithRephraser(rephraser), WithProviderTimeout(20*time.Millisecond))
		start := time.Now()
		reply, err := b.Handle(ctx, "s1", "refund please")
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, ReplyAnswer, reply.Kind)
	})
}

func TestHandle_WithEngine(t *testing.T) {
	entries, err := catalog.Default()
	require.NoError(t, err)
	index, err := match.NewIndex(entries, nil)
	require.NoError(t, err)
	engine, err := match.NewEngine(index, nil)
	require.NoError(t, err)

	b, err := New(engine)
	require.NoError(t, err)
	ctx := context.Background()

	reply, err := b.Handle(ctx, "s1", "I want a refund for my purchase")
	require.NoError(t, err)
	assert.Equal(t, ReplyAnswer, reply.Kind)
	assert.Equal(t, core.ID(1), reply.Entry.Id)
	assert.Equal(t, core.StrategyKeyword, reply.Strategy)

	reply, err = b.Handle(ctx, "s1", "zzz qqq")
	require.NoError(t, err)
	assert.Equal(t, ReplyNoMatch, reply.Kind)
}

func TestHandle_ConcurrentSessions(t *testing.T) {
	b, _ := newScriptedBot(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			reply, err := b.Handle(ctx, id, "shipping question")
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, ReplyClarification, reply.Kind)

			reply, err = b.Handle(ctx, id, "1")
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, shippingTime, reply.Entry)
		}()
	}
	wg.Wait()
}
