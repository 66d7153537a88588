// The pipeline command runs the data-generation stages: collect source
// documents, convert them, extract their text, resolve bill records and
// enrich them with generated analysis. Stages are run individually so a
// failed month can be redone without repeating earlier work.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jing2626/legislativeai/config"
	"github.com/jing2626/legislativeai/pipeline/collector"
	"github.com/jing2626/legislativeai/pipeline/convert"
	"github.com/jing2626/legislativeai/pipeline/docx"
	"github.com/jing2626/legislativeai/pipeline/enrich"
	"github.com/jing2626/legislativeai/pipeline/resolver"
	"github.com/jing2626/legislativeai/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "pipeline",
		Usage: "legislative bill data pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to config file",
			},
		},
		Commands: []*cli.Command{
			collectCommand(),
			convertCommand(),
			extractCommand(),
			resolveCommand(),
			enrichCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by the global flag and initializes
// logging; every command starts here.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	return cfg, nil
}

func monthFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "year", Usage: "target year (e.g. 2025)", Required: true},
		&cli.IntFlag{Name: "month", Usage: "target month (1-12)", Required: true},
	}
}

func targetMonth(c *cli.Context) (int, int, error) {
	year, month := c.Int("year"), c.Int("month")
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %d", month)
	}
	return year, month, nil
}

func collectCommand() *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "crawl bill listings and download source documents",
		Flags: append(monthFlags(),
			&cli.StringSliceFlag{
				Name:  "category",
				Usage: "category listing as name=url, repeatable (e.g. First_Reading=https://...)",
			},
		),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			year, month, err := targetMonth(c)
			if err != nil {
				return err
			}

			categories, err := parseCategories(c.StringSlice("category"))
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				return fmt.Errorf("at least one --category name=url is required")
			}

			crawler := &collector.Crawler{
				Client:       collector.NewHTTPClient(cfg.Crawler),
				UserAgent:    cfg.Crawler.UserAgent,
				RequestDelay: time.Duration(cfg.Crawler.RequestDelayMS) * time.Millisecond,
				DocDir:       cfg.Storage.DocDir(),
				ProgressDir:  cfg.Storage.ProgressDir(),
			}
			return crawler.Run(c.Context, categories, year, month)
		},
	}
}

func parseCategories(raw []string) ([]collector.Category, error) {
	categories := make([]collector.Category, 0, len(raw))
	for _, arg := range raw {
		name, url, ok := strings.Cut(arg, "=")
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid category %q, expected name=url", arg)
		}
		categories = append(categories, collector.Category{Name: name, URL: url})
	}
	return categories, nil
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "convert downloaded .doc files to .docx",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			conv := &convert.Converter{
				Command:   cfg.Crawler.ConvertCommand,
				InputDir:  cfg.Storage.DocDir(),
				OutputDir: cfg.Storage.DocxDir(),
			}
			return conv.Run(c.Context)
		},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "extract paragraphs and tables from .docx files",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			batch := &docx.Batch{
				InputDir:  cfg.Storage.DocxDir(),
				OutputDir: cfg.Storage.DocxOutputDir(),
			}
			return batch.Run(c.Context)
		},
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "resolve extracted texts into structured bill records",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			batch := &resolver.Batch{
				InputDir:    cfg.Storage.DocxOutputDir(),
				ProgressDir: cfg.Storage.ProgressDir(),
				OutputDir:   cfg.Storage.TidyOutputDir(),
			}
			return batch.Run(c.Context)
		},
	}
}

func enrichCommand() *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "analyze resolved bills with the generative model",
		Flags: monthFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			year, month, err := targetMonth(c)
			if err != nil {
				return err
			}

			generator, err := enrich.NewGeminiGenerator(c.Context, cfg.Gemini.APIKey, cfg.Gemini.Model)
			if err != nil {
				return err
			}

			runner := &enrich.Runner{
				Generator:    generator,
				InputDir:     cfg.Storage.TidyOutputDir(),
				OutputDir:    cfg.Storage.AIOutputDir(),
				MaxRetries:   cfg.Gemini.MaxRetries,
				Backoff:      time.Duration(cfg.Gemini.BackoffSec) * time.Second,
				RequestDelay: time.Duration(cfg.Gemini.RequestDelaySec) * time.Second,
			}
			return runner.Run(c.Context, year, month)
		},
	}
}
