package model

import "strings"

// ProgressUnknown is the progress value for bills that could not be
// matched against the collector's progress data.
const ProgressUnknown = "進度未知"

// ComparisonEntry is one row of a bill's amendment comparison table.
// CurrentText is empty for newly enacted articles.
type ComparisonEntry struct {
	ModifiedText string `json:"modified_text"`
	CurrentText  string `json:"current_text"`
	Explanation  string `json:"explanation"`
}

// BillRecord is the structured form of one legislative bill document.
// Field names match the JSON files produced by earlier data runs, so
// existing per-month files load without migration.
type BillRecord struct {
	SourceFile      string            `json:"source_file"`
	ProposalNo      string            `json:"proposal_no,omitempty"`
	BillNo          string            `json:"bill_no,omitempty"`
	BillName        string            `json:"bill_name,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	Proposers       []string          `json:"proposers"`
	Cosigners       []string          `json:"cosigners"`
	Progress        string            `json:"progress"`
	ComparisonTable []ComparisonEntry `json:"comparison_table"`

	// Set by the enrichment stage only.
	Categories []string `json:"categories,omitempty"`
	AIAnalysis string   `json:"ai_analysis,omitempty"`
}

// IsAmendment reports whether the bill amends existing law. A bill is an
// amendment iff its comparison table has at least one row with non-blank
// current text; everything else is a new bill. The enrichment stage picks
// its instructions based on this.
func (b *BillRecord) IsAmendment() bool {
	for _, entry := range b.ComparisonTable {
		if strings.TrimSpace(entry.CurrentText) != "" {
			return true
		}
	}
	return false
}

// HasCategory reports whether the bill carries the given canonical
// category code.
func (b *BillRecord) HasCategory(code string) bool {
	for _, c := range b.Categories {
		if c == code {
			return true
		}
	}
	return false
}

// Participants returns proposers and cosigners as one list.
func (b *BillRecord) Participants() []string {
	out := make([]string, 0, len(b.Proposers)+len(b.Cosigners))
	out = append(out, b.Proposers...)
	out = append(out, b.Cosigners...)
	return out
}

// ProgressEntry is one row of the collector's per-category progress files.
// ProposalNo may hold several semicolon-separated numbers that all share
// the same progress status.
type ProgressEntry struct {
	Date       string   `json:"date"`
	BillName   string   `json:"bill_name"`
	Proposer   string   `json:"proposer"`
	ProposalNo string   `json:"proposal_no"`
	Progress   string   `json:"progress"`
	DocLinks   []string `json:"doc_links"`
}

// Legislator maps a legislator's name to their party.
type Legislator struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

// LegislatorRoster is the wire shape of legislators.json.
type LegislatorRoster struct {
	JSONList []Legislator `json:"jsonList"`
}

// VennBillRef references a bill by number and title inside the
// precomputed set-overlap file. It must be joined against the enriched
// records for display.
type VennBillRef [2]string

// VennSet is one region of the party-overlap diagram.
type VennSet struct {
	Sets  []string      `json:"sets"`
	Label string        `json:"label,omitempty"`
	Size  int           `json:"size,omitempty"`
	Bills []VennBillRef `json:"bills"`
}

// VennData is the wire shape of venn_data_YYYY_MM.json.
type VennData struct {
	VennSets        []VennSet `json:"venn_sets"`
	NonPartisanData *VennSet  `json:"non_partisan_data,omitempty"`
}

// EnrichedVennSet mirrors VennSet with the bill references replaced by
// full records.
type EnrichedVennSet struct {
	Sets  []string      `json:"sets"`
	Label string        `json:"label,omitempty"`
	Size  int           `json:"size,omitempty"`
	Bills []*BillRecord `json:"bills"`
}

// EnrichedVennData is what the venn-data endpoint returns.
type EnrichedVennData struct {
	VennSets        []EnrichedVennSet `json:"venn_sets"`
	NonPartisanData *EnrichedVennSet  `json:"non_partisan_data,omitempty"`
}
