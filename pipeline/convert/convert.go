// Package convert turns legacy .doc downloads into .docx files the
// extractor can read, by shelling out to a LibreOffice-compatible
// converter. The doc/ subfolder layout is mirrored under docx/.
package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jing2626/legislativeai/pkg/logger"
)

// Converter runs the external document converter over a directory tree.
type Converter struct {
	Command   string // e.g. "soffice"
	InputDir  string // doc/
	OutputDir string // docx/
}

// Run converts every .doc under InputDir. A file that fails to convert
// is logged and skipped; one corrupt download must not stop the batch.
func (c *Converter) Run(ctx context.Context) error {
	converted, failed, skipped := 0, 0, 0

	err := filepath.WalkDir(c.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		// Office lock files start with ~$.
		if strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".doc") {
			return nil
		}

		rel, err := filepath.Rel(c.InputDir, path)
		if err != nil {
			return err
		}
		outDir := filepath.Join(c.OutputDir, filepath.Dir(rel))
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, filepath.Ext(name))+".docx")

		if _, err := os.Stat(outPath); err == nil {
			skipped++
			return nil
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", outDir, err)
		}

		if err := c.convertFile(ctx, path, outDir); err != nil {
			logger.Warn(ctx, "conversion failed", "file", rel, "error", err)
			failed++
			return nil
		}
		logger.Info(ctx, "file converted", "file", rel)
		converted++
		return nil
	})
	if err != nil {
		return fmt.Errorf("conversion walk failed: %w", err)
	}

	logger.Info(ctx, "conversion finished",
		"converted", converted, "failed", failed, "skipped", skipped)
	return nil
}

func (c *Converter) convertFile(ctx context.Context, srcPath, outDir string) error {
	cmd := exec.CommandContext(ctx, c.Command,
		"--headless", "--convert-to", "docx", "--outdir", outDir, srcPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w (%s)", c.Command, err, strings.TrimSpace(string(out)))
	}
	return nil
}
