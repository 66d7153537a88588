package docx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jing2626/legislativeai/pkg/logger"
)

// Batch converts every month folder of .docx files into one structured
// JSON file per month, keyed by source filename.
type Batch struct {
	InputDir  string // docx/YYYY_MM/*.docx
	OutputDir string // docx_output/structured_texts_YYYY_MM.json
}

// Run processes all month subfolders. A file that cannot be read is
// logged and skipped; the batch keeps going.
func (b *Batch) Run(ctx context.Context) error {
	entries, err := os.ReadDir(b.InputDir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", b.InputDir, err)
	}
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", b.OutputDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ctx := context.WithValue(ctx, logger.PeriodKey, entry.Name())
		if err := b.runMonth(ctx, entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) runMonth(ctx context.Context, month string) error {
	dir := filepath.Join(b.InputDir, month)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	extracted := make(map[string]*Document)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".docx") {
			continue
		}

		doc, err := Extract(filepath.Join(dir, name))
		if err != nil {
			logger.Warn(ctx, "failed to extract document", "file", name, "error", err)
			continue
		}
		extracted[name] = doc
		logger.Debug(ctx, "document extracted",
			"file", name,
			"paragraphs", len(doc.Paragraphs),
			"tables", len(doc.Tables),
		)
	}

	if len(extracted) == 0 {
		logger.Info(ctx, "no docx files extracted, skipping month", "dir", dir)
		return nil
	}

	outPath := filepath.Join(b.OutputDir, fmt.Sprintf("structured_texts_%s.json", month))
	if err := writeJSON(outPath, extracted); err != nil {
		return err
	}
	logger.Info(ctx, "structured texts written", "path", outPath, "documents", len(extracted))
	return nil
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
