// Package resolver turns extracted document paragraphs and tables into
// typed bill records. Everything here is heuristic: the source documents
// are formatted for humans, so each rule recovers structure from layout
// conventions and skips quietly when a document does not match.
package resolver

import (
	"regexp"
	"strings"

	"github.com/jing2626/legislativeai/model"
	"github.com/jing2626/legislativeai/pipeline/docx"
)

const (
	proposerLabel = "提案人："
	cosignerLabel = "連署人："
)

var (
	digitsPattern   = regexp.MustCompile(`\d+`)
	billNoPattern   = regexp.MustCompile(`議案編號：([^\s\p{Zs}]+)`)
	billNamePattern = regexp.MustCompile(`「(.+?)」`)
	// Governmental submissions name the sending body on a line of the
	// shape "<names>函".
	govSubmissionPattern = regexp.MustCompile(`^([\p{L}\p{N}_\s\p{Zs}、]+)函$`)
	govNameSplitPattern  = regexp.MustCompile(`[、\s\p{Zs}]+`)
)

// reasonTerminators bound the free-text reason block; the earliest one
// found after the reason label wins. 中華民國 catches the republic-era
// date line that closes many documents.
var reasonTerminators = []string{proposerLabel, cosignerLabel, "說明：", "中華民國"}

// Resolve interprets one document's content into a BillRecord. It never
// fails: a document matching no structural pattern yields a record with
// default fields so one bad document cannot abort a batch.
func Resolve(sourceFile string, content *docx.Document, progress ProgressMap) *model.BillRecord {
	bill := &model.BillRecord{
		SourceFile:      sourceFile,
		Proposers:       []string{},
		Cosigners:       []string{},
		Progress:        model.ProgressUnknown,
		ComparisonTable: []model.ComparisonEntry{},
	}

	bill.ProposalNo = findProposalNo(content.Tables)
	if bill.ProposalNo != "" {
		bill.Progress = progress.Lookup(bill.ProposalNo)
	}

	allText := strings.Join(content.Paragraphs, "\n")

	if m := billNoPattern.FindStringSubmatch(allText); m != nil {
		bill.BillNo = strings.TrimSpace(m[1])
	}

	if reason := extractReason(allText); reason != "" {
		bill.Reason = reason
		if m := billNamePattern.FindStringSubmatch(reason); m != nil {
			bill.BillName = strings.TrimSpace(m[1])
		}
	}

	resolveParticipants(bill, content.Paragraphs)

	for _, table := range content.Tables {
		bill.ComparisonTable = append(bill.ComparisonTable, extractComparisonRows(table)...)
	}

	return bill
}

// findProposalNo scans table rows for the registry header row and
// assembles the composite proposal number from three cell fragments:
// the numeric session id in cell 0, the first character of cell 1, and
// the trailing code in cell 3. All three parts are required.
func findProposalNo(tables [][][]string) string {
	for _, table := range tables {
		for _, row := range table {
			if len(row) <= 3 {
				continue
			}
			if !strings.Contains(row[0], "院總第") || !strings.Contains(row[2], "提案第") {
				continue
			}

			part1 := digitsPattern.FindString(row[0])
			part3 := strings.TrimSpace(row[3])
			runes := []rune(row[1])
			if part1 == "" || len(runes) == 0 || part3 == "" {
				continue
			}
			return part1 + string(runes[0]) + part3
		}
	}
	return ""
}

// extractReason captures the text between the reason label and the
// earliest terminator (or end of text).
func extractReason(allText string) string {
	idx := strings.Index(allText, "案由：")
	if idx < 0 {
		return ""
	}
	rest := allText[idx+len("案由："):]

	end := len(rest)
	for _, terminator := range reasonTerminators {
		if i := strings.Index(rest, terminator); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(rest[:end])
}
