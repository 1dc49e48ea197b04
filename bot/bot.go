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
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/session"
)

// DefaultProviderTimeout bounds each model call made during a turn.
const DefaultProviderTimeout = 30 * time.Second

// Matcher matches one question against the FAQ set.
// *match.Engine satisfies it.
type Matcher interface {
	Match(ctx context.Context, question string) *core.MatchResult
}

// ReplyKind classifies a reply.
type ReplyKind int

const (
	// ReplyAnswer carries an answer, either matched or chosen from a clarification.
	ReplyAnswer ReplyKind = iota + 1
	// ReplyClarification lists candidates for the user to choose from.
	ReplyClarification
	// ReplyNoMatch carries the fallback answer.
	ReplyNoMatch
	// ReplyInvalidChoice re-prompts after an out-of-range selection.
	ReplyInvalidChoice
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyAnswer:
		return "answer"
	case ReplyClarification:
		return "clarification"
	case ReplyNoMatch:
		return "no_match"
	case ReplyInvalidChoice:
		return "invalid_choice"
	default:
		return "unknown"
	}
}

// Reply is the bot's response to one turn.
type Reply struct {
	Kind ReplyKind
	// Text is the complete message to show the user.
	Text string
	// Entry is the answered entry for ReplyAnswer.
	Entry      *core.FaqEntry
	Strategy   core.Strategy
	Confidence float32
	// Options are the numbered candidates of a clarification or re-prompt.
	Options []*core.Candidate
	// Question is the text that was matched, after rephrasing.
	Question string
	// Selected is true when the answer came from a clarification choice.
	Selected bool
	// Result is the match the reply was decided from. Nil for clarification
	// choices and re-prompts, which do not match.
	Result *core.MatchResult
}

// ShowsConfidence reports whether the reply should display its confidence.
func (r *Reply) ShowsConfidence() bool {
	return r.Kind == ReplyAnswer
}

// Bot handles conversation turns for many concurrent sessions.
type Bot struct {
	engine    Matcher
	rephraser ai.Rephraser
	formatter ai.AnswerFormatter
	sessions  *session.Store
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Bot.
type Option func(*Bot) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithRephraser sets the question rephraser. Without one, questions are
// matched as typed.
func WithRephraser(rephraser ai.Rephraser) Option {
	return func(b *Bot) error {
		b.rephraser = rephraser
		return nil
	}
}

// WithAnswerFormatter sets the answer formatter. Without one, answers are
// returned verbatim.
func WithAnswerFormatter(formatter ai.AnswerFormatter) Option {
	return func(b *Bot) error {
		b.formatter = formatter
		return nil
	}
}

// WithProvider uses the rephraser and answer formatter of provider.
func WithProvider(provider ai.AIProvider) Option {
	return func(b *Bot) error {
		if provider == nil {
			return nil
		}
		b.rephraser = provider.Rephraser()
		b.formatter = provider.AnswerFormatter()
		return nil
	}
}

// WithSessionStore sets the session store.
// Default is a store of session.DefaultStoreSize sessions.
func WithSessionStore(store *session.Store) Option {
	return func(b *Bot) error {
		if store == nil {
			return session.ErrInvalidStoreSize
		}
		b.sessions = store
		return nil
	}
}

// WithProviderTimeout bounds each rephrase, embed and format call.
// Default is DefaultProviderTimeout.
func WithProviderTimeout(timeout time.Duration) Option {
	return func(b *Bot) error {
		if timeout <= 0 {
			timeout = DefaultProviderTimeout
		}
		b.timeout = timeout
		return nil
	}
}

// New creates a bot around engine.
func New(engine Matcher, opts ...Option) (*Bot, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}

	b := &Bot{
		engine:  engine,
		timeout: DefaultProviderTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.sessions == nil {
		store, err := session.NewStore(session.DefaultStoreSize, session.WithStoreLogger(b.logger))
		if err != nil {
			return nil, err
		}
		b.sessions = store
	}
	b.logger = b.logger.With("component", "bot")

	return b, nil
}

// Sessions returns the session store.
func (b *Bot) Sessions() *session.Store {
	return b.sessions
}

// Handle processes one user turn in the session sessionID. Turns of the same
// session are serialized. The only error is ErrEmptyInput; model failures
// degrade to the raw question and raw answer.
func (b *Bot) Handle(ctx context.Context, sessionID, input string) (*Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	sess := b.sessions.Get(sessionID)
	sess.Lock()
	defer sess.Unlock()

	if pending := sess.Pending(); pending != nil {
		if session.IsSelection(input) {
			if reply, ok := b.resolve(sess, pending, input); ok {
				return reply, nil
			}
		} else {
			b.logger.Debug("discarding pending clarification", "session", sess.ID())
			sess.Clear()
		}
	}

	question := b.rephrase(ctx, input)
	result := b.match(ctx, question)
	if result == nil {
		result = &core.MatchResult{Decision: core.DecisionNoMatch}
	}

	switch result.Decision {
	case core.DecisionAnswer:
		if result.Primary == nil || result.Primary.Entry == nil {
			b.logger.Warn("answer decision without a primary candidate", "question", question)
			break
		}
		answer := b.format(ctx, input, result.Primary.Entry.Answer)
		return &Reply{
			Kind:       ReplyAnswer,
			Text:       answerMessage(result.Confidence, answer),
			Entry:      result.Primary.Entry,
			Strategy:   result.Primary.Strategy,
			Confidence: result.Confidence,
			Question:   question,
			Result:     result,
		}, nil

	case core.DecisionClarify:
		pending := core.NewPendingClarification(input, result)
		if pending == nil {
			b.logger.Warn("clarify decision without alternatives", "question", question)
			break
		}
		sess.Hold(pending)
		return &Reply{
			Kind:       ReplyClarification,
			Text:       ClarificationMessage(pending.Candidates),
			Confidence: result.Confidence,
			Options:    pending.Candidates,
			Question:   question,
			Result:     result,
		}, nil
	}

	return &Reply{
		Kind:     ReplyNoMatch,
		Text:     FallbackAnswer,
		Question: question,
		Result:   result,
	}, nil
}

// resolve answers a numeric turn against the pending clarification. It
// returns false when the turn should be matched as a new question instead.
func (b *Bot) resolve(sess *session.Session, pending *core.PendingClarification, input string) (*Reply, bool) {
	chosen, err := sess.Resolve(input)
	switch {
	case err == nil:
		b.logger.Debug("clarification resolved", "session", sess.ID(), "faq", chosen.Entry.Id)
		return &Reply{
			Kind:       ReplyAnswer,
			Text:       chosen.Entry.Answer,
			Entry:      chosen.Entry,
			Strategy:   chosen.Strategy,
			Confidence: chosen.Score,
			Question:   pending.Question,
			Selected:   true,
		}, true
	case errors.Is(err, session.ErrInvalidClarificationChoice):
		b.logger.Debug("invalid clarification choice", "session", sess.ID(), "input", input)
		return &Reply{
			Kind:    ReplyInvalidChoice,
			Text:    InvalidChoiceMessage(pending.Candidates),
			Options: pending.Candidates,
		}, true
	default:
		return nil, false
	}
}

func (b *Bot) rephrase(ctx context.Context, input string) string {
	if b.rephraser == nil {
		return input
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	rephrased, err := b.rephraser.Rephrase(ctx, input)
	if err != nil {
		b.logger.Warn("rephrase failed, using raw question", "err", err)
		return input
	}
	if rephrased = strings.TrimSpace(rephrased); rephrased == "" {
		return input
	}
	return rephrased
}

func (b *Bot) match(ctx context.Context, question string) *core.MatchResult {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.engine.Match(ctx, question)
}

func (b *Bot) format(ctx context.Context, question, answer string) string {
	if b.formatter == nil {
		return answer
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	formatted, err := b.formatter.Format(ctx, question, answer)
	if err != nil {
		b.logger.Warn("answer formatting failed, using raw answer", "err", err)
		return answer
	}
	if formatted = strings.TrimSpace(formatted); formatted == "" {
		return answer
	}
	return formatted
}
