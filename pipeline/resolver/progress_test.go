package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jing2626/legislativeai/model"
)

func writeProgressFile(t *testing.T, dir, name string, entries []model.ProgressEntry) {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("Failed to marshal fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
}

func TestLoadProgressMapSplitsSemicolons(t *testing.T) {
	dir := t.TempDir()
	writeProgressFile(t, dir, "2025_07_First_Reading.json", []model.ProgressEntry{
		{ProposalNo: "1374委100; 1374委101 ;1374委102", Progress: "一讀（付委審查）"},
		{ProposalNo: "1374委200", Progress: "三讀"},
		{ProposalNo: "", Progress: "不會載入"},
		{ProposalNo: "1374委300", Progress: ""},
	})

	progress, err := LoadProgressMap(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(progress) != 4 {
		t.Errorf("Expected 4 entries, got %d", len(progress))
	}
	for _, no := range []string{"1374委100", "1374委101", "1374委102"} {
		if progress.Lookup(no) != "一讀（付委審查）" {
			t.Errorf("Expected semicolon-split key %q to resolve", no)
		}
	}
	if progress.Lookup("1374委200") != "三讀" {
		t.Errorf("Expected single key to resolve")
	}
	if progress.Lookup("1374委300") != model.ProgressUnknown {
		t.Errorf("Expected entry without progress to be skipped")
	}
}

func TestLoadProgressMapMergesFiles(t *testing.T) {
	dir := t.TempDir()
	writeProgressFile(t, dir, "a.json", []model.ProgressEntry{
		{ProposalNo: "100", Progress: "一讀"},
	})
	writeProgressFile(t, dir, "b.json", []model.ProgressEntry{
		{ProposalNo: "200", Progress: "二讀"},
	})

	progress, err := LoadProgressMap(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if progress.Lookup("100") != "一讀" || progress.Lookup("200") != "二讀" {
		t.Errorf("Expected entries from both files, got %v", progress)
	}
}

func TestLoadProgressMapMissingFolder(t *testing.T) {
	progress, err := LoadProgressMap(filepath.Join(t.TempDir(), "2099_01"))
	if err != nil {
		t.Fatalf("Expected missing folder to be tolerated, got %v", err)
	}
	if len(progress) != 0 {
		t.Errorf("Expected empty map, got %v", progress)
	}
	if progress.Lookup("anything") != model.ProgressUnknown {
		t.Errorf("Expected unknown status from empty map")
	}
}

func TestLoadProgressMapIgnoresMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeProgressFile(t, dir, "ok.json", []model.ProgressEntry{
		{ProposalNo: "100", Progress: "一讀"},
	})

	progress, err := LoadProgressMap(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if progress.Lookup("100") != "一讀" {
		t.Errorf("Expected valid file still loaded")
	}
}
