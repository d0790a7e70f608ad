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
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/lyrica"
	"github.com/poiesic/lyrica/ai"
	"github.com/poiesic/lyrica/ai/openai"
	"github.com/poiesic/lyrica/envelope"
	"github.com/poiesic/lyrica/fingerprint"
	"github.com/poiesic/lyrica/ingestion"
	"github.com/poiesic/lyrica/providers/genius"
	"github.com/poiesic/lyrica/providers/lastfm"
	"github.com/poiesic/lyrica/reembed"
	"github.com/poiesic/lyrica/server"
	"github.com/poiesic/lyrica/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "lyricad",
		Usage: "Lyrics-similarity search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB catalogue directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8000",
					},
					&cli.StringFlag{
						Name:     "enc-key",
						Usage:    "Base64 URL-safe 32-byte envelope key",
						EnvVars:  []string{"ENC_KEY_B64"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "genius-token",
						Usage:    "Genius API token for lyrics fetching",
						EnvVars:  []string{"GENIUS_API_TOKEN"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "lastfm-api-key",
						Usage:   "Last.fm API key for tags and popularity (optional)",
						EnvVars: []string{"LASTFM_API_KEY"},
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "classifier-host",
						Usage: "Classifier service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "semantic-model",
						Usage: "Deep semantic embedding model name",
						Value: "multilingual-e5-large",
					},
					&cli.StringFlag{
						Name:  "rephrase-model",
						Usage: "Rephrasing embedding model name",
						Value: "distiluse-base-multilingual-cased-v1",
					},
					&cli.StringFlag{
						Name:  "classifier-model",
						Usage: "Emotion classifier model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Fingerprint worker pool size (0 = half the CPUs)",
					},
				},
			},
			{
				Name:   "refingerprint",
				Usage:  "Rebuild the fingerprints of every catalogued track",
				Action: refingerprintCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB catalogue directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "classifier-host",
						Usage: "Classifier service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "semantic-model",
						Usage: "Deep semantic embedding model name",
						Value: "multilingual-e5-large",
					},
					&cli.StringFlag{
						Name:  "rephrase-model",
						Usage: "Rephrasing embedding model name",
						Value: "distiluse-base-multilingual-cased-v1",
					},
					&cli.StringFlag{
						Name:  "classifier-model",
						Usage: "Emotion classifier model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of tracks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N tracks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	embeddingHost := c.String("embedding-host")
	classifierHost := c.String("classifier-host")
	if classifierHost == "" {
		classifierHost = embeddingHost
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithClassifierHost(classifierHost),
		ai.WithSemanticModel(c.String("semantic-model")),
		ai.WithRephraseModel(c.String("rephrase-model")),
		ai.WithClassifierModel(c.String("classifier-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	codec, err := envelope.NewCodecFromBase64(c.String("enc-key"))
	if err != nil {
		return fmt.Errorf("invalid envelope key: %w", err)
	}

	lyricsProvider, err := genius.NewClient(c.String("genius-token"))
	if err != nil {
		return fmt.Errorf("failed to create lyrics provider: %w", err)
	}

	db, err := lyrica.NewDatabase(c.String("db"), lyrica.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer db.Close()

	var pipelineOpts []ingestion.Option
	if apiKey := c.String("lastfm-api-key"); apiKey != "" {
		tagClient, err := lastfm.NewClient(apiKey)
		if err != nil {
			return fmt.Errorf("failed to create tag provider: %w", err)
		}
		pipelineOpts = append(pipelineOpts,
			ingestion.WithTagProvider(tagClient),
			ingestion.WithPopularityProvider(tagClient))
	}
	if size := c.Int("pool-size"); size > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(size))
	}

	pipeline, err := db.NewIngestionPipeline(lyricsProvider, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := db.Start(ctx); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	srv, err := server.NewServer(pipeline, searcher, codec,
		server.WithAuditRepository(db.AuditRepository()))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(c.String("addr"))
}

func refingerprintCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewTrackRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	embeddingHost := c.String("embedding-host")
	classifierHost := c.String("classifier-host")
	if classifierHost == "" {
		classifierHost = embeddingHost
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithClassifierHost(classifierHost),
		ai.WithSemanticModel(c.String("semantic-model")),
		ai.WithRephraseModel(c.String("rephrase-model")),
		ai.WithClassifierModel(c.String("classifier-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	builder, err := fingerprint.NewBuilder(provider)
	if err != nil {
		return fmt.Errorf("failed to create fingerprint builder: %w", err)
	}

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	r := reembed.NewRefingerprinter(repo, builder, nil, config, os.Stderr)
	return r.Run(ctx)
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
