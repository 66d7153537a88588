package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/jing2626/legislativeai/model"
	"github.com/jing2626/legislativeai/pipeline/docx"
	"github.com/jing2626/legislativeai/pkg/logger"
)

var structuredFilePattern = regexp.MustCompile(`^structured_texts_(\d{4})_(\d{2})\.json$`)

// Batch resolves every structured-texts file in a directory into the
// matching final-data file.
type Batch struct {
	InputDir    string // docx_output/structured_texts_YYYY_MM.json
	ProgressDir string // progress/YYYY_MM/*.json
	OutputDir   string // tidy_output/final_data_YYYY_MM.json
}

// Run processes all months found in InputDir.
func (b *Batch) Run(ctx context.Context) error {
	entries, err := os.ReadDir(b.InputDir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", b.InputDir, err)
	}
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", b.OutputDir, err)
	}

	for _, entry := range entries {
		m := structuredFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		year, month := m[1], m[2]
		ctx := context.WithValue(ctx, logger.PeriodKey, year+"_"+month)

		if err := b.runMonth(ctx, entry.Name(), year, month); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) runMonth(ctx context.Context, filename, year, month string) error {
	data, err := os.ReadFile(filepath.Join(b.InputDir, filename))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var documents map[string]*docx.Document
	if err := json.Unmarshal(data, &documents); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	progress, err := LoadProgressMap(filepath.Join(b.ProgressDir, year+"_"+month))
	if err != nil {
		return err
	}
	logger.Info(ctx, "progress data loaded", "entries", len(progress))

	// Sorted source order keeps the output file deterministic.
	sources := make([]string, 0, len(documents))
	for source := range documents {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	finalData := make([]*model.BillRecord, 0, len(sources))
	for _, source := range sources {
		bill := Resolve(source, documents[source], progress)
		finalData = append(finalData, bill)
		logger.Debug(ctx, "bill resolved",
			"source", source,
			"proposal_no", bill.ProposalNo,
			"proposers", len(bill.Proposers),
			"comparison_rows", len(bill.ComparisonTable),
		)
	}

	outPath := filepath.Join(b.OutputDir, fmt.Sprintf("final_data_%s_%s.json", year, month))
	if err := writeJSON(outPath, finalData); err != nil {
		return err
	}
	logger.Info(ctx, "final data written", "path", outPath, "bills", len(finalData))
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
