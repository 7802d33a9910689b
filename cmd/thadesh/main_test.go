package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/j22k/thadesh/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error { return nil },
				}

				err := app.Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level fails", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}

		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

// flagContext builds a cli.Context with the given string flags set.
func flagContext(t *testing.T, values map[string]string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for name := range values {
		set.String(name, "", "")
	}
	ctx := cli.NewContext(cli.NewApp(), set, nil)
	for name, value := range values {
		require.NoError(t, ctx.Set(name, value))
	}
	return ctx
}

func TestAIConfigFromFlags(t *testing.T) {
	t.Run("defaults when no flags set", func(t *testing.T) {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		ctx := cli.NewContext(cli.NewApp(), set, nil)

		cfg := aiConfigFromFlags(ctx)
		defaults := ai.DefaultConfig()
		assert.Equal(t, defaults.EmbeddingHost, cfg.EmbeddingHost)
		assert.Equal(t, defaults.EmbeddingModel, cfg.EmbeddingModel)
		assert.Equal(t, defaults.GeneratorModel, cfg.GeneratorModel)
	})

	t.Run("flags override defaults", func(t *testing.T) {
		ctx := flagContext(t, map[string]string{
			"embedding-host":  "http://embed.local:8080",
			"embedding-model": "custom-embed",
			"generator-host":  "http://gen.local:8080",
			"generator-model": "custom-gen",
		})

		cfg := aiConfigFromFlags(ctx)
		assert.Equal(t, "http://embed.local:8080", cfg.EmbeddingHost)
		assert.Equal(t, "custom-embed", cfg.EmbeddingModel)
		assert.Equal(t, "http://gen.local:8080", cfg.GeneratorHost)
		assert.Equal(t, "custom-gen", cfg.GeneratorModel)
	})
}

func TestIngestCommandFlags(t *testing.T) {
	t.Run("document is required", func(t *testing.T) {
		app := &cli.App{
			Name: "thadesh",
			Commands: []*cli.Command{
				{
					Name:   "ingest",
					Action: ingestCommand,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "document", Required: true},
					},
				},
			},
		}

		err := app.Run([]string{"thadesh", "ingest"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document")
	})
}

func TestAskCommand_MissingArtifacts(t *testing.T) {
	dir := t.TempDir()

	app := &cli.App{
		Name: "thadesh",
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "question"},
					&cli.StringFlag{Name: "index"},
					&cli.StringFlag{Name: "chunks"},
					&cli.IntFlag{Name: "sources", Value: 3},
					&cli.StringFlag{Name: "embedding-host"},
					&cli.StringFlag{Name: "embedding-model"},
					&cli.StringFlag{Name: "generator-host"},
					&cli.StringFlag{Name: "generator-model"},
				},
			},
		},
	}

	err := app.Run([]string{"thadesh", "ask",
		"--question", "How do I get a birth certificate?",
		"--index", filepath.Join(dir, "nope.idx"),
		"--chunks", filepath.Join(dir, "nope.chunks"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load system")
}
