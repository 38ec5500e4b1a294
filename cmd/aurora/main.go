// Copyright 2025 The Aurora Q&A Authors
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	aurora "github.com/saideep872/aurora-qa"
	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/httpapi"
)

func main() {
	// A .env file is optional; real environments set variables directly.
	godotenv.Load()

	app := &cli.App{
		Name:  "aurora",
		Usage: "Question answering over attributed message logs",
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
				Usage:  "Load the corpus and answer questions over HTTP",
				Action: serveCommand,
				Flags: append(corpusFlags(),
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "HTTP listen address",
						Value:   aurora.DefaultListenAddr,
						EnvVars: []string{aurora.EnvListenAddr},
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Load the corpus and answer a single question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(corpusFlags(),
					&cli.StringFlag{
						Name:  "person",
						Usage: "Restrict the question to one person's messages",
					},
				),
			},
			{
				Name:   "report",
				Usage:  "Load the corpus and print a data-quality report",
				Action: reportCommand,
				Flags:  corpusFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// corpusFlags are shared by every command that loads the corpus.
func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source-url",
			Usage:   "HTTP endpoint serving the corpus feed",
			EnvVars: []string{aurora.EnvSourceURL},
		},
		&cli.StringFlag{
			Name:    "source-file",
			Usage:   "Local JSON file holding the corpus feed",
			EnvVars: []string{aurora.EnvSourcePath},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API token for the model backends",
			EnvVars: []string{aurora.EnvAPIToken},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			EnvVars: []string{aurora.EnvEmbeddingHost},
		},
		&cli.StringFlag{
			Name:    "reasoning-host",
			Usage:   "Reasoning service host URL",
			EnvVars: []string{aurora.EnvReasoningHost},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{aurora.EnvEmbeddingModel},
		},
		&cli.StringFlag{
			Name:    "reasoning-model",
			Usage:   "Reasoning model name",
			EnvVars: []string{aurora.EnvReasoningModel},
		},
		&cli.IntFlag{
			Name:    "top-k",
			Usage:   "Candidate bound for unfiltered questions",
			EnvVars: []string{aurora.EnvTopK},
		},
		&cli.IntFlag{
			Name:    "person-top-k",
			Usage:   "Candidate bound for person-filtered questions",
			EnvVars: []string{aurora.EnvPersonTopK},
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "On-disk storage path (default is in-memory)",
			EnvVars: []string{aurora.EnvDBPath},
		},
	}
}

func configFromFlags(c *cli.Context) *aurora.Config {
	return &aurora.Config{
		APIToken:       c.String("api-token"),
		EmbeddingHost:  c.String("embedding-host"),
		ReasoningHost:  c.String("reasoning-host"),
		EmbeddingModel: c.String("embedding-model"),
		ReasoningModel: c.String("reasoning-model"),
		TopK:           c.Int("top-k"),
		PersonTopK:     c.Int("person-top-k"),
		ListenAddr:     c.String("listen"),
		SourceURL:      c.String("source-url"),
		SourcePath:     c.String("source-file"),
		DBPath:         c.String("db"),
	}
}

func loadSystem(c *cli.Context) (*aurora.System, error) {
	config := configFromFlags(c)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	system, err := aurora.NewSystem(config)
	if err != nil {
		return nil, err
	}

	stats, err := system.LoadCorpus(c.Context)
	if err != nil {
		system.Close()
		return nil, err
	}
	slog.Info("corpus ready",
		"stored", stats.Stored,
		"skipped", stats.Skipped,
		"embedded", stats.Embedded)
	return system, nil
}

func serveCommand(c *cli.Context) error {
	system, err := loadSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	server, err := httpapi.NewServer(system, c.String("listen"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Start(ctx)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: aurora ask <question>")
	}

	system, err := loadSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	answer, err := system.Ask(c.Context, core.Query{
		Text:         question,
		TargetPerson: c.String("person"),
	})
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if answer.Count != nil {
		fmt.Printf("count: %d\n", *answer.Count)
	}
	return nil
}

func reportCommand(c *cli.Context) error {
	system, err := loadSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	r, err := system.Report(c.Context)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
