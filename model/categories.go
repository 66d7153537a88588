package model

import "sort"

// CategoryDefinitions maps each canonical category code to the display
// label shown by the front end.
var CategoryDefinitions = map[string]string{
	"食":  "食(飲食/農產)",
	"衣":  "衣(日常用品)",
	"住":  "住(居住)",
	"行":  "行(交通)",
	"育":  "育(教育/文化/兒少)",
	"樂":  "樂(娛樂)",
	"醫":  "醫(醫療/健康/藥品)",
	"工":  "工(工作/勞務)",
	"商":  "商(商業/金融/資本)",
	"科":  "科(科學/科技)",
	"罰":  "罰(刑罰/處罰)",
	"外":  "外(外交/國際)",
	"防":  "防(國防)",
	"政":  "政(政府/權力分立)",
	"其他": "其他重要議題",
}

// categoryMap collapses both the long-form labels used in analysis
// prompts and the already-short codes onto the canonical code.
var categoryMap = map[string]string{
	"食(飲食、農產)":          "食",
	"衣(日常用品)":           "衣",
	"住(居住)":             "住",
	"行(交通)":             "行",
	"育(教育、學校、文化、兒童少年)":  "育",
	"樂(娛樂、旅遊)":          "樂",
	"醫(醫療、健康、藥品)":       "醫",
	"工(工作、勞務、工資)":       "工",
	"商(商業、資本、金融)":       "商",
	"科(科學、科技)":          "科",
	"罰(刑罰、處罰)":          "罰",
	"外(外交、國際、外國)":       "外",
	"防(武器、國防)":          "防",
	"政(權力分立)":           "政",
	"其他(前面幾個種類都不符合，就是其他)": "其他",
	"食": "食", "衣": "衣", "住": "住", "行": "行",
	"育": "育", "樂": "樂", "醫": "醫", "工": "工",
	"商": "商", "科": "科", "罰": "罰", "外": "外",
	"防": "防", "政": "政", "其他": "其他",
}

// NormalizeCategory maps a raw tag from the analysis response to its
// canonical code. Unrecognized tags pass through unchanged so the raw
// model output stays visible in the data.
func NormalizeCategory(raw string) string {
	if code, ok := categoryMap[raw]; ok {
		return code
	}
	return raw
}

// NormalizeCategories normalizes, deduplicates and sorts a tag list.
func NormalizeCategories(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag == "" {
			continue
		}
		code := NormalizeCategory(tag)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
