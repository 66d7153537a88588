package model

import (
	"reflect"
	"testing"
)

func TestIsAmendment(t *testing.T) {
	newBill := &BillRecord{
		ComparisonTable: []ComparisonEntry{
			{ModifiedText: "第一條 本法...", CurrentText: ""},
			{ModifiedText: "第二條 ...", CurrentText: "   "},
		},
	}
	if newBill.IsAmendment() {
		t.Error("Expected bill with only blank current text to be a new bill")
	}

	amendment := &BillRecord{
		ComparisonTable: []ComparisonEntry{
			{ModifiedText: "第一條 ...", CurrentText: ""},
			{ModifiedText: "第二條 ...", CurrentText: "第二條 現行規定"},
		},
	}
	if !amendment.IsAmendment() {
		t.Error("Expected bill with non-blank current text to be an amendment")
	}

	empty := &BillRecord{}
	if empty.IsAmendment() {
		t.Error("Expected bill without comparison table to be a new bill")
	}
}

func TestHasCategory(t *testing.T) {
	bill := &BillRecord{Categories: []string{"工", "商"}}

	if !bill.HasCategory("商") {
		t.Error("Expected bill to match category 商")
	}
	if bill.HasCategory("醫") {
		t.Error("Expected bill not to match category 醫")
	}
}

func TestNormalizeCategories(t *testing.T) {
	raw := []string{"工(工作、勞務、工資)", "工", "商(商業、資本、金融)", ""}
	got := NormalizeCategories(raw)
	want := []string{"商", "工"}

	// sort.Strings orders by byte value, 商 < 工 in UTF-8
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizeCategoryUnknownPassthrough(t *testing.T) {
	if got := NormalizeCategory("環境"); got != "環境" {
		t.Errorf("Expected unknown tag to pass through, got %q", got)
	}
}

func TestCategoryDefinitionsCoverMap(t *testing.T) {
	for _, code := range NormalizeCategories([]string{
		"食", "衣", "住", "行", "育", "樂", "醫", "工", "商", "科", "罰", "外", "防", "政", "其他",
	}) {
		if _, ok := CategoryDefinitions[code]; !ok {
			t.Errorf("Canonical code %q has no definition", code)
		}
	}
}
