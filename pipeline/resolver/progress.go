package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jing2626/legislativeai/model"
)

// ProgressMap resolves proposal numbers to their latest known progress
// status. The collector writes one file per listing category; a single
// entry may carry several semicolon-separated proposal numbers that all
// share one status, so the map is built per individual number.
type ProgressMap map[string]string

// Lookup returns the status for a proposal number, or the unknown
// marker when the number was never seen.
func (m ProgressMap) Lookup(proposalNo string) string {
	if status, ok := m[proposalNo]; ok {
		return status
	}
	return model.ProgressUnknown
}

// LoadProgressMap reads every JSON file in a month's progress folder.
// A missing folder is not an error: the month simply has no progress
// data and every bill stays at the unknown status.
func LoadProgressMap(dir string) (ProgressMap, error) {
	progress := make(ProgressMap)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return progress, nil
		}
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		var bills []model.ProgressEntry
		if err := json.Unmarshal(data, &bills); err != nil {
			// Not a progress listing; ignore the file.
			continue
		}

		for _, bill := range bills {
			if bill.ProposalNo == "" || bill.Progress == "" {
				continue
			}
			for _, no := range strings.Split(bill.ProposalNo, ";") {
				if no = strings.TrimSpace(no); no != "" {
					progress[no] = bill.Progress
				}
			}
		}
	}

	return progress, nil
}
