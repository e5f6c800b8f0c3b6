// Copyright 2026 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/searchit"
	"github.com/poiesic/searchit/ai"
	"github.com/poiesic/searchit/config"
	"github.com/poiesic/searchit/core"
	"github.com/poiesic/searchit/ingest"
	"github.com/poiesic/searchit/parser"
)

func main() {
	// A .env beside the binary may hold the embedding host settings.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "searchit",
		Usage: "Self-hosted hybrid document search",
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
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "enqueue",
				Usage:     "Queue documents for ingestion",
				ArgsUsage: "FILE [FILE...]",
				Action:    enqueueCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Document ID (single file only; derived from the filename otherwise)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title stored with the content",
					},
				},
			},
			{
				Name:   "work",
				Usage:  "Drain the ingestion queue until interrupted",
				Action: workCommand,
			},
			{
				Name:      "search",
				Usage:     "Run a hybrid search",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Print a stored document",
				ArgsUsage: "DOCUMENT_ID",
				Action:    getCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete documents from the index",
				ArgsUsage: "DOCUMENT_ID [DOCUMENT_ID...]",
				Action:    deleteCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored document and rebuild the vector index",
				Action: reindexCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.String("log-level"), err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func open(c *cli.Context) (*searchit.Searchit, *config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	db, err := searchit.Open(cfg.DataDir,
		searchit.WithQueueBackend(cfg.Queue.Backend),
		searchit.WithStoreBackend(cfg.Store.Backend),
		searchit.WithAIConfig(ai.NewConfig(
			ai.WithHost(cfg.Embedder.Host),
			ai.WithEmbeddingModel(cfg.Embedder.Model),
			ai.WithMaxInputRunes(cfg.Embedder.MaxInputRunes),
		)),
	)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

func enqueueCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}
	if c.String("id") != "" && c.NArg() > 1 {
		return fmt.Errorf("--id only applies to a single file")
	}

	db, _, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		filename := filepath.Base(path)
		text, err := parser.Parse(data, filename, "")
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		documentID := c.String("id")
		if documentID == "" {
			documentID = core.DocumentIDFromName(filename)
		}
		title := c.String("title")
		if title == "" {
			title = filename
		}

		metadata := map[string]any{"title": title, "filename": filename}
		if err := db.Queue().Enqueue(c.Context, documentID, text, metadata); err != nil {
			return err
		}
		fmt.Printf("queued %s as %s\n", path, documentID)
	}
	return nil
}

func workCommand(c *cli.Context) error {
	db, cfg, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	worker, err := db.NewWorker(
		ingest.WithPoolSize(cfg.Worker.PoolSize),
		ingest.WithChunking(cfg.Worker.ChunkSize, cfg.Worker.ChunkOverlap),
		ingest.WithPollInterval(time.Duration(cfg.Worker.PollIntervalSecs)*time.Second),
	)
	if err != nil {
		return err
	}
	defer worker.Release()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("worker started", "dataDir", cfg.DataDir)
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("worker stopped")
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one query is required")
	}

	db, _, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Engine().Search(c.Context, c.Args().First(), c.Int("max-results"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s '%s' [%0.4f]\n", i+1, hit.DocumentID, hit.Title, hit.Score)
		for _, highlight := range hit.Highlights {
			fmt.Printf("   %s\n", highlight)
		}
	}
	return nil
}

func getCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document ID is required")
	}

	db, _, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	doc, err := db.Engine().GetDocument(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("Title: %s\n", doc.Title)
	for key, value := range doc.Metadata {
		fmt.Printf("%s: %v\n", key, value)
	}
	for _, chunk := range doc.ChunkedContent {
		fmt.Println(chunk)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one document ID is required")
	}

	db, _, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Engine().DeleteDocuments(c.Context, c.Args().Slice()...); err != nil {
		return err
	}
	fmt.Printf("deleted %d documents\n", c.NArg())
	return nil
}

func reindexCommand(c *cli.Context) error {
	db, _, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	if err := db.Engine().Reindex(c.Context); err != nil {
		return err
	}
	fmt.Printf("reindex finished in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
