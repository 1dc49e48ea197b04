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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/faqmatch"
	"github.com/poiesic/faqmatch/bot"
	"github.com/poiesic/faqmatch/catalog"
	"github.com/poiesic/faqmatch/config"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/ingestion"
	"github.com/poiesic/faqmatch/match"
	"github.com/poiesic/faqmatch/reembed"
	"github.com/poiesic/faqmatch/session"
	"github.com/poiesic/faqmatch/tui"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "faqmatch",
		Usage: "FAQ matching and disambiguation assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "faqmatch.yaml",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-ai",
				Usage: "Disable the AI provider and match lexically",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Replace the stored FAQ set and embed new or changed questions",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "faqs",
						Aliases: []string{"f"},
						Usage:   "YAML or JSON FAQ file (defaults to the built-in set)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List stored FAQ entries",
				Action: listCommand,
			},
			{
				Name:      "ask",
				Usage:     "Ask one or more questions in a single session",
				ArgsUsage: "QUESTION [CHOICE...]",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print the match decision and candidates for each turn",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Start the interactive chat",
				Action: chatCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Recompute the embedding of every stored FAQ question",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of questions to embed in each batch",
						Value: reembed.DefaultConfig().BatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: reembed.DefaultConfig().ReportInterval,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: reembed.DefaultConfig().MaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: reembed.DefaultConfig().RetryDelay,
					},
				},
			},
		},
	}
}

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath := c.String("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if c.Bool("no-ai") {
		cfg.AI.Enabled = false
	}
	if c.IsSet("faqs") {
		cfg.Faqs.Path = c.String("faqs")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*faqmatch.Database, error) {
	opts := []faqmatch.DatabaseOption{faqmatch.WithLogger(slog.Default())}
	if cfg.AI.Enabled {
		opts = append(opts, faqmatch.WithAIConfig(cfg.AIConfig()))
	} else {
		opts = append(opts, faqmatch.WithoutAI())
	}
	if cfg.Database.InMemory {
		opts = append(opts, faqmatch.WithInMemory())
	}

	db, err := faqmatch.NewDatabase(cfg.Database.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func readFaqs(path string) ([]*core.FaqEntry, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func ingest(ctx context.Context, cfg *config.Config, db *faqmatch.Database) (*ingestion.Report, error) {
	entries, err := readFaqs(cfg.Faqs.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FAQs: %w", err)
	}
	report, err := db.Load(ctx, entries,
		ingestion.WithBatchSize(cfg.Faqs.BatchSize),
		ingestion.WithPoolSize(cfg.Faqs.PoolSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load FAQs: %w", err)
	}
	return report, nil
}

// ensureLoaded ingests the configured FAQ set when the database is empty.
func ensureLoaded(ctx context.Context, cfg *config.Config, db *faqmatch.Database) error {
	count, err := db.FaqRepository().CountFaqEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to count FAQs: %w", err)
	}
	if count > 0 {
		return nil
	}
	slog.Info("database is empty, loading FAQs", "path", cfg.Faqs.Path)
	_, err = ingest(ctx, cfg, db)
	return err
}

func newBot(ctx context.Context, cfg *config.Config, db *faqmatch.Database) (*bot.Bot, *match.Engine, error) {
	if err := ensureLoaded(ctx, cfg, db); err != nil {
		return nil, nil, err
	}
	matchOpts := []match.Option{
		match.WithPolicy(cfg.Policy()),
		match.WithThresholds(cfg.Thresholds()),
	}
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		matchOpts = append(matchOpts, match.WithMonitor(match.NewLoggingMonitor(slog.Default())))
	}
	engine, err := db.NewEngine(ctx, matchOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build match engine: %w", err)
	}
	store, err := session.NewStore(cfg.Session.StoreSize, session.WithStoreLogger(slog.Default()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session store: %w", err)
	}
	b, err := db.NewBot(engine,
		bot.WithSessionStore(store),
		bot.WithProviderTimeout(cfg.Bot.ProviderTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return b, engine, nil
}

func loadCommand(c *cli.Context) error {
	ctx := c.Context
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := ingest(ctx, cfg, db)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Loaded %d FAQ entries\n", report.Entries)
	fmt.Fprintf(w, "Embedded: %d, reused: %d, failed: %d, removed: %d\n",
		report.Embedded, report.Reused, report.Failed, report.Removed)
	if report.Failed > 0 {
		fmt.Fprintln(w, "Some questions have no embedding; run reembed once the embedding service is reachable.")
	}
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := c.Context
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.FaqRepository().ListFaqEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list FAQs: %w", err)
	}
	printEntries(c.App.Writer, entries)
	return nil
}

func printEntries(w io.Writer, entries []*core.FaqEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No FAQ entries stored. Run load first.")
		return
	}
	for _, entry := range entries {
		category := entry.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%-20d %-12s %s\n", entry.Id, category, entry.Question)
	}
}

func askCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}
	ctx := c.Context
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	b, _, err := newBot(ctx, cfg, db)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for i, input := range c.Args().Slice() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		reply, err := b.Handle(ctx, "cli", input)
		if err != nil {
			return fmt.Errorf("failed to answer %q: %w", input, err)
		}
		if c.Bool("explain") {
			printExplanation(w, reply)
		}
		printReply(w, reply)
	}
	return nil
}

func printReply(w io.Writer, reply *bot.Reply) {
	fmt.Fprintln(w, reply.Text)
	if reply.ShowsConfidence() {
		fmt.Fprintf(w, "%s (%s)\n", bot.FormatConfidence(reply.Confidence), reply.Strategy)
	}
}

// printExplanation shows the match the reply was decided from. Clarification
// choices have none.
func printExplanation(w io.Writer, reply *bot.Reply) {
	result := reply.Result
	if result == nil {
		fmt.Fprintf(w, "reply=%s (no match run)\n", reply.Kind)
		return
	}
	fmt.Fprintf(w, "question=%q decision=%s confidence=%.3f\n", reply.Question, result.Decision, result.Confidence)
	if result.Primary != nil {
		fmt.Fprintf(w, "  primary  %.3f %-16s %s\n", result.Primary.Score, result.Primary.Strategy, result.Primary.Entry.Question)
	}
	for _, alt := range result.Alternatives {
		fmt.Fprintf(w, "  option   %.3f %-16s %s\n", alt.Score, alt.Strategy, alt.Entry.Question)
	}
}

func chatCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	b, engine, err := newBot(ctx, cfg, db)
	if err != nil {
		return err
	}
	return tui.Run(ctx, b, "tui", summary(db, engine))
}

func summary(db *faqmatch.Database, engine *match.Engine) string {
	index := engine.Index()
	mode := "lexical matching only"
	if db.Provider() != nil && index.VectorCount() > 0 {
		mode = fmt.Sprintf("semantic matching with %s", db.EmbeddingModel())
	}
	return fmt.Sprintf("%d FAQs loaded, %s", index.Len(), mode)
}

func reembedCommand(c *cli.Context) error {
	ctx := c.Context
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if !cfg.AI.Enabled {
		return fmt.Errorf("reembed requires the AI provider to be enabled")
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	reembedder, err := db.NewReembedder(reembedConfig, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", db.EmbeddingModel())
	fmt.Fprintln(c.App.ErrWriter)

	start := time.Now()
	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	slog.Debug("reembed finished", "elapsed", time.Since(start))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
