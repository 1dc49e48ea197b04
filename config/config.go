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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/poiesic/faqmatch/ai"
	"github.com/poiesic/faqmatch/bot"
	"github.com/poiesic/faqmatch/match"
	"github.com/poiesic/faqmatch/session"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FAQMATCH_"

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	AI       AIConfig       `koanf:"ai"`
	Match    MatchConfig    `koanf:"match"`
	Session  SessionConfig  `koanf:"session"`
	Bot      BotConfig      `koanf:"bot"`
	Faqs     FaqsConfig     `koanf:"faqs"`
}

// DatabaseConfig locates the badger database.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// AIConfig configures the OpenAI-compatible model endpoints.
type AIConfig struct {
	// Enabled turns model calls on. When false the bot runs on lexical
	// strategies only.
	Enabled         bool   `koanf:"enabled"`
	EmbeddingHost   string `koanf:"embedding_host"`
	GenerationHost  string `koanf:"generation_host"`
	EmbeddingModel  string `koanf:"embedding_model"`
	GenerationModel string `koanf:"generation_model"`
	MaxTokens       int    `koanf:"max_tokens"`
}

// MatchConfig holds the scoring thresholds and the disambiguation policy.
type MatchConfig struct {
	ConfidentScore    float32 `koanf:"confident_score"`
	AmbiguousScore    float32 `koanf:"ambiguous_score"`
	MaxAlternatives   int     `koanf:"max_alternatives"`
	SemanticThreshold float32 `koanf:"semantic_threshold"`
	KeywordThreshold  float32 `koanf:"keyword_threshold"`
	LexicalThreshold  float32 `koanf:"lexical_threshold"`
}

// SessionConfig bounds the session store.
type SessionConfig struct {
	StoreSize int `koanf:"store_size"`
}

// BotConfig configures conversation turns.
type BotConfig struct {
	ProviderTimeout time.Duration `koanf:"provider_timeout"`
}

// FaqsConfig locates the FAQ set and tunes its ingestion.
type FaqsConfig struct {
	// Path is a YAML or JSON FAQ file. Empty uses the built-in set.
	Path      string `koanf:"path"`
	BatchSize int    `koanf:"batch_size"`
	PoolSize  int    `koanf:"pool_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	policy := match.DefaultPolicy()
	thresholds := match.DefaultThresholds()

	return &Config{
		Database: DatabaseConfig{
			Path: "faqmatch.db",
		},
		AI: AIConfig{
			Enabled:         true,
			EmbeddingHost:   aiDefaults.EmbeddingHost,
			GenerationHost:  aiDefaults.GenerationHost,
			EmbeddingModel:  aiDefaults.EmbeddingModel,
			GenerationModel: aiDefaults.GenerationModel,
			MaxTokens:       aiDefaults.MaxTokens,
		},
		Match: MatchConfig{
			ConfidentScore:    policy.ConfidentScore,
			AmbiguousScore:    policy.AmbiguousScore,
			MaxAlternatives:   policy.MaxAlternatives,
			SemanticThreshold: thresholds.Semantic,
			KeywordThreshold:  thresholds.Keyword,
			LexicalThreshold:  thresholds.Lexical,
		},
		Session: SessionConfig{
			StoreSize: session.DefaultStoreSize,
		},
		Bot: BotConfig{
			ProviderTimeout: bot.DefaultProviderTimeout,
		},
		Faqs: FaqsConfig{
			BatchSize: 16,
			PoolSize:  2,
		},
	}
}

// Load reads .env, then path (if it exists; empty skips the file), then
// FAQMATCH_ environment variables over the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps FAQMATCH_AI__EMBEDDING_MODEL to ai.embedding_model.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.AI.Enabled {
		if err := c.AIConfig().Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Session.StoreSize < 1 {
		return fmt.Errorf("%w: session.store_size must be positive", ErrInvalidConfig)
	}
	if c.Bot.ProviderTimeout <= 0 {
		return fmt.Errorf("%w: bot.provider_timeout must be positive", ErrInvalidConfig)
	}
	if c.Faqs.BatchSize < 1 || c.Faqs.PoolSize < 1 {
		return fmt.Errorf("%w: faqs.batch_size and faqs.pool_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// AIConfig returns the provider configuration.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithGenerationHost(c.AI.GenerationHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithGenerationModel(c.AI.GenerationModel),
		ai.WithMaxTokens(c.AI.MaxTokens),
	)
}

// Policy returns the disambiguation policy.
func (c *Config) Policy() match.Policy {
	return match.Policy{
		ConfidentScore:  c.Match.ConfidentScore,
		AmbiguousScore:  c.Match.AmbiguousScore,
		MaxAlternatives: c.Match.MaxAlternatives,
	}
}

// Thresholds returns the scorer inclusion thresholds.
func (c *Config) Thresholds() match.Thresholds {
	return match.Thresholds{
		Semantic: c.Match.SemanticThreshold,
		Keyword:  c.Match.KeywordThreshold,
		Lexical:  c.Match.LexicalThreshold,
	}
}
