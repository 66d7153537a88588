package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jing2626/legislativeai/model"
)

// Month identifies one enriched data file.
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Label returns the human-readable form used by the month picker.
func (m Month) Label() string {
	return fmt.Sprintf("%d年%02d月", m.Year, m.Month)
}

var enrichedFilePattern = regexp.MustCompile(`^ai_enriched_data_(\d{4})_(\d{2})\.json$`)

// DataStore reads the enriched per-month JSON files. It holds no state
// beyond the directory path: every call re-reads from disk, so data
// regenerated by the pipeline is picked up without a restart.
type DataStore struct {
	dir string
}

func NewDataStore(dir string) *DataStore {
	return &DataStore{dir: dir}
}

// LoadBills reads the enriched bill records for one month.
func (s *DataStore) LoadBills(year, month int) ([]*model.BillRecord, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("ai_enriched_data_%d_%02d.json", year, month))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no bill data for %d-%02d", ErrNotFound, year, month)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var bills []*model.BillRecord
	if err := json.Unmarshal(data, &bills); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return bills, nil
}

// LoadMonths merges the records of several months. Months without a data
// file are skipped; other read errors propagate.
func (s *DataStore) LoadMonths(months []Month) ([]*model.BillRecord, error) {
	var all []*model.BillRecord
	for _, m := range months {
		bills, err := s.LoadBills(m.Year, m.Month)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		all = append(all, bills...)
	}
	return all, nil
}

// AvailableMonths scans the data directory for enriched files and returns
// their months, newest first.
func (s *DataStore) AvailableMonths() []Month {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var months []Month
	for _, entry := range entries {
		m := enrichedFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		months = append(months, Month{Year: year, Month: month})
	}

	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
	return months
}

// LatestMonths returns up to n most recent months with data.
func (s *DataStore) LatestMonths(n int) []Month {
	months := s.AvailableMonths()
	if len(months) > n {
		months = months[:n]
	}
	return months
}

// FilterAvailable keeps only the months that actually have a data file,
// preserving order.
func (s *DataStore) FilterAvailable(months []Month) []Month {
	available := make(map[Month]struct{})
	for _, m := range s.AvailableMonths() {
		available[m] = struct{}{}
	}

	var valid []Month
	for _, m := range months {
		if _, ok := available[m]; ok {
			valid = append(valid, m)
		}
	}
	return valid
}

// LoadLegislators reads the legislator-to-party roster.
func (s *DataStore) LoadLegislators() (*model.LegislatorRoster, error) {
	path := filepath.Join(s.dir, "legislators.json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: legislators.json missing", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var roster model.LegislatorRoster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &roster, nil
}

// LoadVenn reads the precomputed set-overlap structure for one month.
func (s *DataStore) LoadVenn(year, month int) (*model.VennData, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("venn_data_%d_%02d.json", year, month))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no venn data for %d-%02d", ErrNotFound, year, month)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var venn model.VennData
	if err := json.Unmarshal(data, &venn); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &venn, nil
}

// ParseMonthRange expands inclusive "YYYY-MM" bounds into every month in
// chronological order, rolling over year boundaries.
func ParseMonthRange(start, end string) ([]Month, error) {
	startYear, startMonth, err := parseYearMonth(start)
	if err != nil {
		return nil, err
	}
	endYear, endMonth, err := parseYearMonth(end)
	if err != nil {
		return nil, err
	}

	if startYear > endYear || (startYear == endYear && startMonth > endMonth) {
		return nil, fmt.Errorf("%w: start %s after end %s", ErrBadRequest, start, end)
	}

	var months []Month
	year, month := startYear, startMonth
	for year < endYear || (year == endYear && month <= endMonth) {
		months = append(months, Month{Year: year, Month: month})
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return months, nil
}

func parseYearMonth(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: invalid month %q, expected YYYY-MM", ErrBadRequest, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid year in %q", ErrBadRequest, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: invalid month in %q", ErrBadRequest, s)
	}
	return year, month, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
