package resolver

import (
	"regexp"
	"strings"
	"unicode"
)

// Whitespace runs of two or more always separate names. \p{Zs} pulls in
// the full-width space the documents use between columns.
var multiSpacePattern = regexp.MustCompile(`[\s\p{Zs}]{2,}`)

const nameSeparator = "||"

// ParseNames splits a blob of legislator names. Two rules, applied in
// order:
//  1. runs of two or more whitespace characters separate names;
//  2. a single space directly after four CJK characters separates names,
//     so a four-character name followed by another name splits while a
//     name with an internal space survives.
func ParseNames(text string) []string {
	if text == "" {
		return nil
	}

	processed := multiSpacePattern.ReplaceAllString(text, nameSeparator)
	processed = splitAfterFourCJK(processed)

	var names []string
	for _, part := range strings.Split(processed, nameSeparator) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// splitAfterFourCJK replaces each single whitespace character whose four
// preceding runes are all CJK (and whose following rune is not itself
// whitespace) with the name separator. Done by hand because the rule
// needs a lookahead the regexp engine does not support.
func splitAfterFourCJK(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))

	for i, r := range runes {
		if isSpaceRune(r) &&
			i+1 < len(runes) && !isSpaceRune(runes[i+1]) &&
			i >= 4 && allCJK(runes[i-4:i]) {
			sb.WriteString(nameSeparator)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isSpaceRune(r rune) bool {
	return unicode.IsSpace(r)
}

func allCJK(runes []rune) bool {
	for _, r := range runes {
		if r < 0x4e00 || r > 0x9fa5 {
			return false
		}
	}
	return true
}

// SplitCaucusMembers splits a continuation line under a caucus proposal.
// Caucus member lists use a single full-width space between names, so
// the general name-splitting rules would mangle them.
func SplitCaucusMembers(line string) []string {
	var names []string
	for _, part := range strings.Split(line, "　") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
