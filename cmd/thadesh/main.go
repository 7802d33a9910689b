// Copyright 2025 Thadesh Authors
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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/j22k/thadesh"
	"github.com/j22k/thadesh/ai"
	"github.com/j22k/thadesh/ai/openai"
	"github.com/j22k/thadesh/core"
	"github.com/j22k/thadesh/ingestion"
	"github.com/j22k/thadesh/query"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	defaultIndexPath  = "kerala_panchayat_index.bin"
	defaultChunksPath = "kerala_chunks.bin"
)

func main() {
	// Missing .env is fine; explicit environment still applies.
	godotenv.Load()

	app := &cli.App{
		Name:  "thadesh",
		Usage: "Question answering over Kerala Panchayat documents",
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
				Name:   "ingest",
				Usage:  "Process a document into the query-ready artifact pair",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "document",
						Aliases:  []string{"d"},
						Usage:    "Path to the source document (.pdf, .txt, .md)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "index",
						Usage: "Path for the vector index artifact",
						Value: defaultIndexPath,
					},
					&cli.StringFlag{
						Name:  "chunks",
						Usage: "Path for the chunks artifact",
						Value: defaultChunksPath,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Target chunk size in characters",
						Value: ingestion.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Overlap between consecutive chunks in characters",
						Value: ingestion.DefaultChunkOverlap,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite existing artifacts without asking",
					},
				},
			},
			{
				Name:   "ask",
				Usage:  "Ask a question against ingested documents",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "question",
						Aliases: []string{"q"},
						Usage:   "Question to answer (omit for an interactive session)",
					},
					&cli.StringFlag{
						Name:  "index",
						Usage: "Path to the vector index artifact",
						Value: defaultIndexPath,
					},
					&cli.StringFlag{
						Name:  "chunks",
						Usage: "Path to the chunks artifact",
						Value: defaultChunksPath,
					},
					&cli.IntFlag{
						Name:    "sources",
						Aliases: []string{"k"},
						Usage:   "Number of document sections to retrieve",
						Value:   query.DefaultTopK,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.StringFlag{
						Name:  "generator-host",
						Usage: "Generative model service host URL",
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Generative model name",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiConfigFromFlags builds the AI configuration, letting flags override the
// defaults and the GROQ_API_KEY environment variable supply the key.
func aiConfigFromFlags(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if c.IsSet("generator-host") {
		opts = append(opts, ai.WithGeneratorHost(c.String("generator-host")))
	}
	if c.IsSet("generator-model") {
		opts = append(opts, ai.WithGeneratorModel(c.String("generator-model")))
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	}
	return ai.NewConfig(opts...)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	indexPath := c.String("index")
	chunksPath := c.String("chunks")
	force := c.Bool("force")

	if !force && artifactsExist(indexPath, chunksPath) {
		ok, err := confirm(fmt.Sprintf("Artifacts %s / %s already exist. Overwrite? [y/N] ", indexPath, chunksPath))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
		force = true
	}

	cfg := aiConfigFromFlags(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	pipeline, err := ingestion.NewPipeline(provider, indexPath, chunksPath,
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithChunkOverlap(c.Int("overlap")),
		ingestion.WithOverwrite(force),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	result, err := pipeline.Ingest(ctx, c.String("document"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %s: %d chunks, dimension %d, %s\n",
		c.String("document"), result.Chunks, result.Dimension, result.Elapsed.Round(time.Millisecond))
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg := aiConfigFromFlags(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	system, err := thadesh.Open(c.String("index"), c.String("chunks"), cfg)
	if err != nil {
		return fmt.Errorf("failed to load system: %w", err)
	}
	defer system.Close()

	numSources := c.Int("sources")

	if question := c.String("question"); question != "" {
		printResponse(system.Ask(ctx, question, numSources))
		return nil
	}

	// Interactive session.
	fmt.Println("Ask about Kerala Panchayat rules and procedures. Empty line or Ctrl-D exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}
		printResponse(system.Ask(ctx, question, numSources))
	}
	return scanner.Err()
}

func printResponse(resp *core.QueryResponse) {
	fmt.Println()
	fmt.Println(resp.Answer)
	fmt.Println()
	if resp.NumSources > 0 {
		fmt.Printf("Sources (%d):\n", resp.NumSources)
		for i, source := range resp.Sources {
			fmt.Printf("  %d. %s\n", i+1, source)
		}
	}
	fmt.Printf("Confidence: %.3f  Time: %.2fs\n", resp.Confidence, resp.ResponseTime)
	if resp.ErrorMessage != "" {
		fmt.Printf("Error: %s\n", resp.ErrorMessage)
	}
	fmt.Println()
}

func artifactsExist(paths ...string) bool {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// confirm asks a yes/no question on the terminal. EOF counts as no.
func confirm(prompt string) (bool, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" && err != nil {
		return false, nil
	}
	return answer == "y" || answer == "yes", nil
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
