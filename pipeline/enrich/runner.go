package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jing2626/legislativeai/model"
	"github.com/jing2626/legislativeai/pkg/logger"
)

// categoriesPattern matches the one-line category answer the prompt
// demands, e.g. "Categories: [工, 商]".
var categoriesPattern = regexp.MustCompile(`Categories:\s*\[([^\]]+)\]`)

// Runner drives the analysis of one month's resolved bills. Each
// successful record rewrites the full output file, so the file on disk
// is always a valid resume point.
type Runner struct {
	Generator Generator
	InputDir  string // tidy_output
	OutputDir string // ai_output

	MaxRetries   int
	Backoff      time.Duration
	RequestDelay time.Duration
}

// Run analyzes the bills for the given month. Bills already present in
// the output file are skipped. A record that still fails after all
// retries aborts the run; everything analyzed before it is on disk.
func (r *Runner) Run(ctx context.Context, year, month int) error {
	period := fmt.Sprintf("%d_%02d", year, month)
	ctx = context.WithValue(ctx, logger.PeriodKey, period)

	inputPath := filepath.Join(r.InputDir, fmt.Sprintf("final_data_%s.json", period))
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	var bills []*model.BillRecord
	if err := json.Unmarshal(data, &bills); err != nil {
		return fmt.Errorf("failed to parse %s: %w", inputPath, err)
	}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", r.OutputDir, err)
	}
	outputPath := filepath.Join(r.OutputDir, fmt.Sprintf("ai_enriched_data_%s.json", period))

	enriched, completed := loadResumeState(ctx, outputPath)
	logger.Info(ctx, "analysis starting",
		"bills", len(bills),
		"already_done", len(completed),
	)

	for index, bill := range bills {
		if _, done := completed[bill.SourceFile]; done {
			logger.Debug(ctx, "bill already analyzed", "source", bill.SourceFile)
			continue
		}

		prompt := BuildPrompt(bill)
		raw, err := r.generateWithRetry(ctx, prompt)
		if err != nil {
			return fmt.Errorf("analysis failed for %s after %d attempts, progress saved to %s: %w",
				bill.SourceFile, r.MaxRetries, outputPath, err)
		}

		bill.Categories = ParseCategories(raw)
		bill.AIAnalysis = raw
		enriched = append(enriched, bill)

		if err := writeJSON(outputPath, enriched); err != nil {
			return err
		}
		logger.Info(ctx, "bill analyzed",
			"source", bill.SourceFile,
			"categories", strings.Join(bill.Categories, ","),
			"done", len(enriched),
			"total", len(bills),
		)

		if index < len(bills)-1 {
			if err := sleep(ctx, r.RequestDelay); err != nil {
				return err
			}
		}
	}

	logger.Info(ctx, "analysis complete", "path", outputPath, "bills", len(enriched))
	return nil
}

// loadResumeState reads any previous output. A malformed file discards
// the previous progress rather than failing the run.
func loadResumeState(ctx context.Context, outputPath string) ([]*model.BillRecord, map[string]struct{}) {
	completed := make(map[string]struct{})

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, completed
	}

	var enriched []*model.BillRecord
	if err := json.Unmarshal(data, &enriched); err != nil {
		logger.Warn(ctx, "previous output unreadable, starting over",
			"path", outputPath, "error", err)
		return nil, completed
	}

	for _, bill := range enriched {
		if bill.SourceFile != "" {
			completed[bill.SourceFile] = struct{}{}
		}
	}
	return enriched, completed
}

// generateWithRetry retries transient failures with a doubling backoff.
func (r *Runner) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	backoff := r.Backoff
	var lastErr error

	for attempt := 1; attempt <= r.MaxRetries; attempt++ {
		raw, err := r.Generator.GenerateText(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		logger.Warn(ctx, "generation attempt failed",
			"attempt", attempt,
			"max", r.MaxRetries,
			"backoff", backoff.String(),
			"error", err,
		)
		if attempt < r.MaxRetries {
			if err := sleep(ctx, backoff); err != nil {
				return "", err
			}
			backoff *= 2
		}
	}
	return "", lastErr
}

// ParseCategories extracts and normalizes the category tags from a raw
// analysis response. A response without the expected line yields an
// empty list, not an error; the analysis text itself is still kept.
func ParseCategories(raw string) []string {
	m := categoriesPattern.FindStringSubmatch(raw)
	if m == nil {
		return []string{}
	}

	parts := strings.Split(m[1], ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return model.NormalizeCategories(tags)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
