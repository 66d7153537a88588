package service

import (
	"github.com/jing2626/legislativeai/model"
)

// Party names as they appear in the legislator roster.
const (
	PartyKMT         = "中國國民黨"
	PartyDPP         = "民主進步黨"
	PartyTPP         = "台灣民眾黨"
	PartyIndependent = "無黨籍"
)

// PartyBuckets are the fixed participation buckets, in display order.
// Only these three pairwise combinations are recognized; bills whose
// party set has three or more members land in no combination bucket.
var PartyBuckets = []string{
	PartyKMT,
	PartyDPP,
	PartyTPP,
	PartyKMT + "+" + PartyTPP,
	PartyKMT + "+" + PartyDPP,
	PartyDPP + "+" + PartyTPP,
	PartyIndependent,
}

// SummarizeCategories counts category occurrences across the given
// bills. A bill with several categories increments each of them.
func SummarizeCategories(bills []*model.BillRecord) map[string]int {
	counts := make(map[string]int)
	for _, bill := range bills {
		for _, category := range bill.Categories {
			counts[category]++
		}
	}
	return counts
}

// FilterByCategory returns the bills carrying the given category code.
// An empty filter returns the input unchanged.
func FilterByCategory(bills []*model.BillRecord, category string) []*model.BillRecord {
	if category == "" {
		return bills
	}
	filtered := make([]*model.BillRecord, 0)
	for _, bill := range bills {
		if bill.HasCategory(category) {
			filtered = append(filtered, bill)
		}
	}
	return filtered
}

// AnalyzePartyParticipation groups bills into the fixed party buckets.
// A bill with any independent participant joins the independent bucket
// and may additionally join a single-party or recognized two-party
// bucket based on the remaining parties.
func AnalyzePartyParticipation(bills []*model.BillRecord, roster *model.LegislatorRoster) map[string][]*model.BillRecord {
	nameToParty := make(map[string]string, len(roster.JSONList))
	for _, legislator := range roster.JSONList {
		nameToParty[legislator.Name] = legislator.Party
	}

	stats := make(map[string][]*model.BillRecord, len(PartyBuckets))
	for _, bucket := range PartyBuckets {
		stats[bucket] = []*model.BillRecord{}
	}

	for _, bill := range bills {
		parties := make(map[string]struct{})
		hasIndependent := false

		for _, participant := range bill.Participants() {
			party, ok := nameToParty[participant]
			if !ok {
				continue
			}
			switch party {
			case PartyIndependent:
				hasIndependent = true
			case PartyKMT, PartyDPP, PartyTPP:
				parties[party] = struct{}{}
			}
		}

		if hasIndependent {
			stats[PartyIndependent] = append(stats[PartyIndependent], bill)
		}

		switch len(parties) {
		case 1:
			for party := range parties {
				stats[party] = append(stats[party], bill)
			}
		case 2:
			bucket := pairBucket(parties)
			if bucket != "" {
				stats[bucket] = append(stats[bucket], bill)
			}
		}
	}

	return stats
}

func pairBucket(parties map[string]struct{}) string {
	_, kmt := parties[PartyKMT]
	_, dpp := parties[PartyDPP]
	_, tpp := parties[PartyTPP]

	switch {
	case kmt && tpp:
		return PartyKMT + "+" + PartyTPP
	case kmt && dpp:
		return PartyKMT + "+" + PartyDPP
	case dpp && tpp:
		return PartyDPP + "+" + PartyTPP
	}
	return ""
}

// PartyStats is the summary returned by the party-stats endpoint.
type PartyStats struct {
	TotalBills                   int            `json:"total_bills"`
	PartyCounts                  map[string]int `json:"party_counts"`
	IndependentParticipationRate float64        `json:"independent_participation_rate"`
}

// BuildPartyStats condenses the bucket assignment into counts.
func BuildPartyStats(bills []*model.BillRecord, roster *model.LegislatorRoster) *PartyStats {
	stats := AnalyzePartyParticipation(bills, roster)

	counts := make(map[string]int, len(stats))
	for bucket, bucketBills := range stats {
		counts[bucket] = len(bucketBills)
	}

	rate := 0.0
	if len(bills) > 0 {
		rate = float64(len(stats[PartyIndependent])) / float64(len(bills))
	}

	return &PartyStats{
		TotalBills:                   len(bills),
		PartyCounts:                  counts,
		IndependentParticipationRate: rate,
	}
}

// JoinVennData replaces each (bill_no, title) reference in the overlap
// structure with the full matching record. References without a matching
// record are dropped.
func JoinVennData(venn *model.VennData, bills []*model.BillRecord) *model.EnrichedVennData {
	detailMap := make(map[string]*model.BillRecord, len(bills))
	for _, bill := range bills {
		if bill.BillNo != "" {
			detailMap[bill.BillNo] = bill
		}
	}

	join := func(set model.VennSet) model.EnrichedVennSet {
		enriched := model.EnrichedVennSet{
			Sets:  set.Sets,
			Label: set.Label,
			Size:  set.Size,
			Bills: []*model.BillRecord{},
		}
		for _, ref := range set.Bills {
			if bill, ok := detailMap[ref[0]]; ok {
				enriched.Bills = append(enriched.Bills, bill)
			}
		}
		return enriched
	}

	out := &model.EnrichedVennData{
		VennSets: make([]model.EnrichedVennSet, 0, len(venn.VennSets)),
	}
	for _, set := range venn.VennSets {
		out.VennSets = append(out.VennSets, join(set))
	}
	if venn.NonPartisanData != nil {
		enriched := join(*venn.NonPartisanData)
		out.NonPartisanData = &enriched
	}
	return out
}
