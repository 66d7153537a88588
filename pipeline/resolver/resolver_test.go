package resolver

import (
	"reflect"
	"testing"

	"github.com/jing2626/legislativeai/model"
	"github.com/jing2626/legislativeai/pipeline/docx"
)

func TestFindProposalNo(t *testing.T) {
	tables := [][][]string{
		{
			{"表頭", "無關", "內容"},
		},
		{
			{"院總第1374號", "委員提案", "第11005789號之提案第", "11005789"},
		},
	}

	// Second table's row has 提案第 in cell 2 and 院總第 in cell 0.
	got := findProposalNo(tables)
	want := "1374" + "委" + "11005789"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFindProposalNoNoMatch(t *testing.T) {
	tables := [][][]string{
		{{"修正條文", "現行條文", "說明"}},
		{{"院總第1374號", "委員提案"}}, // too short
	}
	if got := findProposalNo(tables); got != "" {
		t.Errorf("Expected empty proposal number, got %q", got)
	}
}

func TestFindProposalNoEmptyFragmentSkipped(t *testing.T) {
	tables := [][][]string{
		{
			{"院總第號", "委員提案", "提案第", "123"}, // no digits in cell 0
			{"院總第20號", "委員提案", "提案第", "456"},
		},
	}
	if got := findProposalNo(tables); got != "20委456" {
		t.Errorf("Expected fallthrough to valid row, got %q", got)
	}
}

func TestExtractReason(t *testing.T) {
	allText := "議案編號：202500123\n案由：為保障勞工權益，修正「勞動基準法」部分條文。\n提案人：王小明"

	reason := extractReason(allText)
	want := "為保障勞工權益，修正「勞動基準法」部分條文。"
	if reason != want {
		t.Errorf("Expected %q, got %q", want, reason)
	}
}

func TestExtractReasonTerminatedByDate(t *testing.T) {
	reason := extractReason("案由：理由文字。\n中華民國一一四年七月一日")
	if reason != "理由文字。" {
		t.Errorf("Expected date line excluded, got %q", reason)
	}
}

func TestExtractReasonRunsToEnd(t *testing.T) {
	reason := extractReason("案由：只有案由沒有其他段落")
	if reason != "只有案由沒有其他段落" {
		t.Errorf("Expected reason to run to end of text, got %q", reason)
	}
}

func TestResolveFullDocument(t *testing.T) {
	content := &docx.Document{
		Paragraphs: []string{
			"議案編號：202500123",
			"案由：為保障勞工權益，修正「勞動基準法」部分條文。",
			"提案人：王小明  李小美",
			"陳大文  林小華",
			"連署人：張三  李四",
			"說明：以下說明",
		},
		Tables: [][][]string{
			{
				{"院總第1374號", "委員提案", "提案第", "11005789"},
			},
			{
				{"修正條文", "現行條文", "說明"},
				{"第一條（新）", "第一條（舊）", "修正理由"},
				{"", "不算的列", "略"},
			},
		},
	}
	progress := ProgressMap{"1374委11005789": "一讀（付委審查）"}

	bill := Resolve("test.docx", content, progress)

	if bill.SourceFile != "test.docx" {
		t.Errorf("Expected source file preserved, got %q", bill.SourceFile)
	}
	if bill.ProposalNo != "1374委11005789" {
		t.Errorf("Expected proposal number assembled, got %q", bill.ProposalNo)
	}
	if bill.Progress != "一讀（付委審查）" {
		t.Errorf("Expected progress matched, got %q", bill.Progress)
	}
	if bill.BillNo != "202500123" {
		t.Errorf("Expected bill number extracted, got %q", bill.BillNo)
	}
	if bill.BillName != "勞動基準法" {
		t.Errorf("Expected bill name from quoted reason text, got %q", bill.BillName)
	}

	wantProposers := []string{"王小明", "李小美", "陳大文", "林小華"}
	if !reflect.DeepEqual(bill.Proposers, wantProposers) {
		t.Errorf("Expected proposers %v, got %v", wantProposers, bill.Proposers)
	}
	wantCosigners := []string{"張三", "李四"}
	if !reflect.DeepEqual(bill.Cosigners, wantCosigners) {
		t.Errorf("Expected cosigners %v, got %v", wantCosigners, bill.Cosigners)
	}

	if len(bill.ComparisonTable) != 1 {
		t.Fatalf("Expected 1 comparison row, got %d", len(bill.ComparisonTable))
	}
	entry := bill.ComparisonTable[0]
	if entry.ModifiedText != "第一條（新）" || entry.CurrentText != "第一條（舊）" || entry.Explanation != "修正理由" {
		t.Errorf("Unexpected comparison entry: %+v", entry)
	}
	if !bill.IsAmendment() {
		t.Error("Expected record with current text to classify as amendment")
	}
}

func TestResolveEmptyDocument(t *testing.T) {
	bill := Resolve("empty.docx", &docx.Document{}, ProgressMap{})

	if bill.SourceFile != "empty.docx" {
		t.Errorf("Expected source file set, got %q", bill.SourceFile)
	}
	if bill.Progress != model.ProgressUnknown {
		t.Errorf("Expected unknown progress, got %q", bill.Progress)
	}
	if bill.ProposalNo != "" || bill.BillNo != "" || bill.Reason != "" {
		t.Errorf("Expected default fields, got %+v", bill)
	}
	if len(bill.Proposers) != 0 || len(bill.ComparisonTable) != 0 {
		t.Errorf("Expected empty lists, got %+v", bill)
	}
}

func TestResolveUnmatchedProgressStaysUnknown(t *testing.T) {
	content := &docx.Document{
		Tables: [][][]string{
			{{"院總第1374號", "委員提案", "提案第", "999"}},
		},
	}

	bill := Resolve("x.docx", content, ProgressMap{"other": "三讀"})
	if bill.ProposalNo != "1374委999" {
		t.Errorf("Expected proposal number resolved, got %q", bill.ProposalNo)
	}
	if bill.Progress != model.ProgressUnknown {
		t.Errorf("Expected unknown progress for unmatched number, got %q", bill.Progress)
	}
}

func TestResolveCaucusProposal(t *testing.T) {
	content := &docx.Document{
		Paragraphs: []string{
			"提案人：台灣民眾黨立法院黨團",
			"王小明　李小美　陳大文",
			"連署人：張三  李四",
		},
	}

	bill := Resolve("caucus.docx", content, ProgressMap{})

	wantProposers := []string{"台灣民眾黨立法院黨團", "王小明", "李小美", "陳大文"}
	if !reflect.DeepEqual(bill.Proposers, wantProposers) {
		t.Errorf("Expected caucus label plus members, got %v", bill.Proposers)
	}
}

func TestResolveSectionExitOnStructuralMarker(t *testing.T) {
	content := &docx.Document{
		Paragraphs: []string{
			"提案人：王小明  李小美",
			"陳大文",
			"勞動基準法第三十條條文修正草案", // structural markers end the section
			"林小華", // no longer inside a section
		},
	}

	bill := Resolve("exit.docx", content, ProgressMap{})

	wantProposers := []string{"王小明", "李小美", "陳大文"}
	if !reflect.DeepEqual(bill.Proposers, wantProposers) {
		t.Errorf("Expected section to end at structural marker, got %v", bill.Proposers)
	}
}

func TestResolveGovernmentalSubmissionFallback(t *testing.T) {
	content := &docx.Document{
		Paragraphs: []string{
			"議案編號：202500456",
			"行政院、司法院函",
			"案由：函請審議。",
		},
	}

	bill := Resolve("gov.docx", content, ProgressMap{})

	want := []string{"行政院", "司法院"}
	if !reflect.DeepEqual(bill.Proposers, want) {
		t.Errorf("Expected governmental bodies as proposers, got %v", bill.Proposers)
	}
}

func TestResolveCosignerContinuation(t *testing.T) {
	content := &docx.Document{
		Paragraphs: []string{
			"連署人：張三  李四",
			"王五  趙六",
		},
	}

	bill := Resolve("cosign.docx", content, ProgressMap{})

	want := []string{"張三", "李四", "王五", "趙六"}
	if !reflect.DeepEqual(bill.Cosigners, want) {
		t.Errorf("Expected continuation line appended to cosigners, got %v", bill.Cosigners)
	}
}
