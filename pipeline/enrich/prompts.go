// Package enrich runs each resolved bill through a generative model and
// stores the returned analysis next to the structured record. Progress
// is written after every successful record so an interrupted run can
// resume where it stopped.
package enrich

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jing2626/legislativeai/model"
)

// categoriesText enumerates the category choices offered to the model.
// The long labels match the keys the normalizer recognizes, so answers
// quoting either the long or the short form map back cleanly.
const categoriesText = "食(飲食、農產)、衣(日常用品)、住(居住)、行(交通)、育(教育、學校、文化、兒童少年)、樂(娛樂、旅遊)、醫(醫療、健康、藥品)、工(工作、勞務、工資)、商(商業、資本、金融)、科(科學、科技)、罰(刑罰、處罰)、外(外交、國際、外國)、防(武器、國防)、政(權力分立)、其他(前面幾個種類都不符合，就是其他)"

// billTitle derives the human-readable bill title from the source
// filename, which carries the original document name.
func billTitle(sourceFile string) string {
	return strings.TrimSuffix(filepath.Base(sourceFile), ".docx")
}

// buildAmendmentPrompt assembles the instruction for bills that carry a
// current-vs-modified comparison table. The && && markers are a
// response contract: the model must echo those headings verbatim so the
// frontend can split the answer into sections.
func buildAmendmentPrompt(bill *model.BillRecord) string {
	parts := []string{
		"你是一位專業、中立且善於溝通的法案分析師。你的任務是幫助一般民眾，用最清晰易懂的方式理解立法草案。請根據以下提供的「法案修正對照表」與「案由」，完成四項任務，並且:(1)分析時，請勿使用表格 (2)&& &&內的文字，以及&& &&本身，代表這是我特定的標題：絕對不能更動，也絕對不能用任何方式重點標記這些文字(禁止加粗、斜體等)，必須要完整保留後再進行回答(正確範例，&&法案分類&&：你的回答)(錯誤範例，&&法案分類:你的回答)(錯誤範例，**法案分類**:你的回答)：",
		fmt.Sprintf("1. &&法案分類&&：首先，根據法案內容判斷其最相關的領域。請從以下列表中選擇 1 至 3 個最相關的分類：[%s]。請務必在獨立的一行，並只能使用 `Categories: [分類1, 分類2, ...]` 的格式回覆。", categoriesText),
		"2. &&條文差異比較&&：請以條列式，清晰地說明「現行條文」與「修正條文」的核心差異。",
		"3. &&修法理由總結：根據「說明」欄位的內容，用專業但精煉的語言，總結本次修法的核心目標與理由。",
		"4. &&白話文解說&&：請分別針對以下三個子項目進行白話文解說，每個子項目都必須使用提供的標題。 (1)&&為什麼要改？&& (2)&&改了什麼重點？&& (3)&&可能會對民眾產生什麼影響？&&",
		"---",
		fmt.Sprintf("**法案名稱**：%s", billTitle(bill.SourceFile)),
		fmt.Sprintf("**案由**：%s", bill.Reason),
		"---",
		"**法案修正對照表**：",
	}

	for _, item := range bill.ComparisonTable {
		parts = append(parts,
			fmt.Sprintf("\n【現行條文】\n%s\n", item.CurrentText),
			fmt.Sprintf("【修正條文】\n%s\n", item.ModifiedText),
			fmt.Sprintf("【說明】\n%s\n", item.Explanation),
		)
	}

	return strings.Join(parts, "\n")
}

// buildNewBillPrompt assembles the instruction for bills without a
// comparison table, where the whole proposal lives in the reason text.
func buildNewBillPrompt(bill *model.BillRecord) string {
	return strings.Join([]string{
		"你是一位專業、中立且善於溝通的法案分析師。你的任務是幫助一般民眾，用最清晰易懂的方式理解新的立法草案。請根據以下提供的「案由」與「說明」內容，完成四項任務，並且:(1)分析時，請勿使用表格 (2)&& &&內的文字，以及&& &&本身，代表這是我特定的標題：絕對不能更動，也絕對不能用任何方式重點標記這些文字(禁止加粗、斜體等)，必須要完整保留後再進行回答(正確範例，&&法案分類&&：你的回答)(錯誤範例1，&&法案分類:你的回答)(錯誤範例2，**法案分類**:你的回答)：",
		fmt.Sprintf("1. &&法案分類&&：首先，根據法案內容判斷其最相關的領域。請從以下列表中選擇 1 至 3 個最相關的分類：[%s]。請務必在獨立的一行，並只能使用 `Categories: [分類1, 分類2, ...]` 的格式回覆。", categoriesText),
		"2. &&立法重點摘要&&：總結這部新法律要解決的核心問題，以及它的主要內容是什麼。",
		"3. &&增訂理由&&：用較為專業且精練的語言，說明制定這部新法律的背景與目的。",
		"4. &&白話文解說&&：請分別針對以下三個子項目進行白話文解說，每個子項目都必須使用提供的標題。 (1)&&為什麼我們需要這部新法律？&& (2)&&它主要在規範什麼？&& (3)&&未來對民眾的生活可能有哪些影響？&&",
		"---",
		fmt.Sprintf("**法案名稱**：%s", billTitle(bill.SourceFile)),
		fmt.Sprintf("**案由與說明**：%s", bill.Reason),
		"---",
	}, "\n")
}

// BuildPrompt picks the matching template for the bill type.
func BuildPrompt(bill *model.BillRecord) string {
	if bill.IsAmendment() {
		return buildAmendmentPrompt(bill)
	}
	return buildNewBillPrompt(bill)
}
