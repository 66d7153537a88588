package resolver

import (
	"strings"

	"github.com/jing2626/legislativeai/model"
)

// lineKind classifies a paragraph for the proposer/cosigner state
// machine. The matchers run in priority order; the first match wins.
type lineKind int

const (
	lineProposerLabel lineKind = iota
	lineCosignerLabel
	lineContinuation
	lineOther
)

// classifyLine applies the named pattern matchers in priority order.
// A continuation line is any paragraph free of structural markers
// (colon, 號, 第, 條, 草案); those markers mean the name list ended and
// a new section began.
func classifyLine(para string) lineKind {
	switch {
	case strings.HasPrefix(para, proposerLabel):
		return lineProposerLabel
	case strings.HasPrefix(para, cosignerLabel):
		return lineCosignerLabel
	case !strings.ContainsAny(para, "：號第條") && !strings.Contains(para, "草案"):
		return lineContinuation
	default:
		return lineOther
	}
}

// resolveParticipants walks the paragraphs, filling proposers and
// cosigners. Caucus proposals (黨團) store the caucus label as the
// single proposer and switch continuation lines to full-width-space
// splitting, because caucus member lists are formatted differently from
// individual proposer lists.
func resolveParticipants(bill *model.BillRecord, paragraphs []string) {
	inProposerSection := false
	inCosignerSection := false
	isCaucusProposal := false

	for _, para := range paragraphs {
		if !inProposerSection {
			isCaucusProposal = false
		}

		switch classifyLine(para) {
		case lineProposerLabel:
			inProposerSection = true
			inCosignerSection = false
			namesText := strings.TrimSpace(strings.TrimPrefix(para, proposerLabel))
			if strings.Contains(namesText, "黨團") {
				isCaucusProposal = true
				bill.Proposers = append(bill.Proposers, namesText)
			} else {
				bill.Proposers = append(bill.Proposers, ParseNames(namesText)...)
			}

		case lineCosignerLabel:
			inCosignerSection = true
			inProposerSection = false
			namesText := strings.TrimSpace(strings.TrimPrefix(para, cosignerLabel))
			bill.Cosigners = append(bill.Cosigners, ParseNames(namesText)...)

		case lineContinuation:
			if !inProposerSection && !inCosignerSection {
				continue
			}
			var names []string
			if inProposerSection && isCaucusProposal {
				names = SplitCaucusMembers(para)
			} else {
				names = ParseNames(para)
			}
			if inProposerSection {
				bill.Proposers = append(bill.Proposers, names...)
			} else {
				bill.Cosigners = append(bill.Cosigners, names...)
			}

		default:
			inProposerSection = false
			inCosignerSection = false
		}
	}

	// Fallback for governmental submissions, which name the sending
	// body instead of using a proposer label.
	if len(bill.Proposers) == 0 {
		for _, para := range paragraphs {
			m := govSubmissionPattern.FindStringSubmatch(strings.TrimSpace(para))
			if m == nil {
				continue
			}
			for _, name := range govNameSplitPattern.Split(strings.TrimSpace(m[1]), -1) {
				if name != "" {
					bill.Proposers = append(bill.Proposers, name)
				}
			}
			break
		}
	}
}
