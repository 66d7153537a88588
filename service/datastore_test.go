package service

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jing2626/legislativeai/model"
)

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
}

func TestParseMonthRange(t *testing.T) {
	months, err := ParseMonthRange("2024-11", "2025-02")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []Month{{2024, 11}, {2024, 12}, {2025, 1}, {2025, 2}}
	if !reflect.DeepEqual(months, want) {
		t.Errorf("Expected %v, got %v", want, months)
	}
}

func TestParseMonthRangeSingleMonth(t *testing.T) {
	months, err := ParseMonthRange("2025-06", "2025-06")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(months) != 1 || months[0] != (Month{2025, 6}) {
		t.Errorf("Expected single month 2025-06, got %v", months)
	}
}

func TestParseMonthRangeInvalid(t *testing.T) {
	cases := []struct{ start, end string }{
		{"2025/06", "2025-07"},
		{"2025-13", "2025-14"},
		{"garbage", "2025-07"},
		{"2025-08", "2025-07"}, // start after end
		{"2025-06", ""},
	}
	for _, tc := range cases {
		if _, err := ParseMonthRange(tc.start, tc.end); !errors.Is(err, ErrBadRequest) {
			t.Errorf("Expected ErrBadRequest for (%q, %q), got %v", tc.start, tc.end, err)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	if got := (Month{2025, 7}).Label(); got != "2025年07月" {
		t.Errorf("Expected 2025年07月, got %q", got)
	}
}

func TestLoadBillsMissingFile(t *testing.T) {
	store := NewDataStore(t.TempDir())

	_, err := store.LoadBills(2025, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing month, got %v", err)
	}
}

func TestLoadBills(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "ai_enriched_data_2025_07.json", []*model.BillRecord{
		{SourceFile: "a.docx", Categories: []string{"工"}},
		{SourceFile: "b.docx", Categories: []string{"工", "商"}},
	})

	store := NewDataStore(dir)
	bills, err := store.LoadBills(2025, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(bills) != 2 {
		t.Fatalf("Expected 2 bills, got %d", len(bills))
	}
	if bills[0].SourceFile != "a.docx" {
		t.Errorf("Expected a.docx first, got %s", bills[0].SourceFile)
	}
}

func TestAvailableMonthsSortedDescending(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "ai_enriched_data_2025_01.json", []*model.BillRecord{})
	writeJSON(t, dir, "ai_enriched_data_2024_12.json", []*model.BillRecord{})
	writeJSON(t, dir, "ai_enriched_data_2025_03.json", []*model.BillRecord{})
	writeJSON(t, dir, "legislators.json", model.LegislatorRoster{})
	writeJSON(t, dir, "venn_data_2025_01.json", model.VennData{})

	store := NewDataStore(dir)
	months := store.AvailableMonths()
	want := []Month{{2025, 3}, {2025, 1}, {2024, 12}}
	if !reflect.DeepEqual(months, want) {
		t.Errorf("Expected %v, got %v", want, months)
	}

	latest := store.LatestMonths(2)
	if !reflect.DeepEqual(latest, want[:2]) {
		t.Errorf("Expected %v, got %v", want[:2], latest)
	}
}

func TestLoadMonthsSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "ai_enriched_data_2025_06.json", []*model.BillRecord{
		{SourceFile: "a.docx"},
	})
	writeJSON(t, dir, "ai_enriched_data_2025_08.json", []*model.BillRecord{
		{SourceFile: "b.docx"},
	})

	store := NewDataStore(dir)
	bills, err := store.LoadMonths([]Month{{2025, 6}, {2025, 7}, {2025, 8}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(bills) != 2 {
		t.Errorf("Expected 2 bills across existing months, got %d", len(bills))
	}
}

func TestFilterAvailable(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "ai_enriched_data_2025_06.json", []*model.BillRecord{})

	store := NewDataStore(dir)
	valid := store.FilterAvailable([]Month{{2025, 5}, {2025, 6}, {2025, 7}})
	if !reflect.DeepEqual(valid, []Month{{2025, 6}}) {
		t.Errorf("Expected only 2025-06, got %v", valid)
	}
}

func TestLoadLegislators(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "legislators.json", model.LegislatorRoster{
		JSONList: []model.Legislator{{Name: "王小明", Party: "民主進步黨"}},
	})

	store := NewDataStore(dir)
	roster, err := store.LoadLegislators()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(roster.JSONList) != 1 || roster.JSONList[0].Name != "王小明" {
		t.Errorf("Unexpected roster: %+v", roster)
	}

	empty := NewDataStore(t.TempDir())
	if _, err := empty.LoadLegislators(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing roster, got %v", err)
	}
}
