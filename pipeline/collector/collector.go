// Package collector crawls the legislative bill-progress listings for
// one month, records each bill's progress status per category, and
// downloads the attached proposal documents. Requests are sequential
// with deliberate delays; the target site rate-limits aggressively.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jing2626/legislativeai/model"
	"github.com/jing2626/legislativeai/pkg/logger"
)

const (
	docIconPath  = "/billtp/images/doc_icon.png"
	nextIconPath = "/billtp/images/page_next.png"
)

var (
	// proposalNoPattern is the fallback when the detail page has no
	// labeled cell: the number sits between the label and the next
	// field heading in the page text.
	proposalNoPattern = regexp.MustCompile(`提案編號[\s\p{Zs}]*([\s\S]+?)[\s\p{Zs}]*(?:法名稱|資料來源|系統號)`)

	invalidFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)
	whitespaceRuns       = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Category pairs a stable name with the listing URL to crawl. The URLs
// are session-scoped on the legislative site and must be supplied per
// run.
type Category struct {
	Name string
	URL  string
}

// Crawler fetches listings for one target month and writes progress
// files and documents into the storage tree.
type Crawler struct {
	Client       *http.Client
	UserAgent    string
	RequestDelay time.Duration

	DocDir      string // doc/YYYY_MM/*.doc
	ProgressDir string // progress/YYYY_MM/*.json
}

// listingRow is one parsed row of a listing page, before the detail
// page has been visited.
type listingRow struct {
	entry     model.ProgressEntry
	detailURL string
}

// Run crawls every category for the target month.
func (c *Crawler) Run(ctx context.Context, categories []Category, year, month int) error {
	period := fmt.Sprintf("%d_%02d", year, month)
	ctx = context.WithValue(ctx, logger.PeriodKey, period)

	for _, cat := range categories {
		if err := c.crawlCategory(ctx, cat, year, month); err != nil {
			return fmt.Errorf("category %s: %w", cat.Name, err)
		}
	}
	return nil
}

// crawlCategory pages through one category listing. Paging stops when a
// whole page's rows predate the target month; listings are newest
// first, so nothing relevant can follow.
func (c *Crawler) crawlCategory(ctx context.Context, cat Category, year, month int) error {
	ctx = context.WithValue(ctx, logger.ComponentKey, "collector")
	logger.Info(ctx, "category crawl starting", "category", cat.Name, "url", cat.URL)

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	var collected []*model.ProgressEntry

	pageURL := cat.URL
	for pageURL != "" {
		doc, err := c.fetchDocument(ctx, pageURL)
		if err != nil {
			logger.Warn(ctx, "listing page fetch failed", "url", pageURL, "error", err)
			break
		}

		rows := parseListing(doc, pageURL)
		if len(rows) == 0 {
			logger.Info(ctx, "empty listing page, stopping", "url", pageURL)
			break
		}

		pageTooOld := true
		matched := 0
		for _, row := range rows {
			date, ok := parseMinguoDate(row.entry.Date)
			if !ok {
				logger.Debug(ctx, "unparseable listing date", "date", row.entry.Date)
				continue
			}
			if !date.Before(monthStart) {
				pageTooOld = false
			}
			if date.Year() != year || date.Month() != time.Month(month) {
				continue
			}

			entry := row.entry
			if row.detailURL != "" {
				no, err := c.fetchProposalNumber(ctx, row.detailURL)
				if err != nil {
					logger.Warn(ctx, "proposal number lookup failed",
						"bill", entry.BillName, "url", row.detailURL, "error", err)
				} else {
					entry.ProposalNo = no
				}
				if err := sleep(ctx, c.RequestDelay); err != nil {
					return err
				}
			}
			if entry.ProposalNo == "" {
				logger.Warn(ctx, "row without proposal number", "bill", entry.BillName)
			}

			collected = append(collected, &entry)
			matched++
		}
		logger.Info(ctx, "listing page processed", "url", pageURL, "matched", matched)

		if pageTooOld {
			logger.Info(ctx, "page predates target month, stopping", "category", cat.Name)
			break
		}

		pageURL = nextPageURL(doc, pageURL)
		if pageURL != "" {
			if err := sleep(ctx, c.RequestDelay); err != nil {
				return err
			}
		}
	}

	if len(collected) == 0 {
		logger.Info(ctx, "no rows matched target month", "category", cat.Name)
		return nil
	}

	if err := c.writeProgressFile(cat.Name, collected, year, month); err != nil {
		return err
	}

	for _, entry := range collected {
		if err := c.downloadDocs(ctx, entry, year, month); err != nil {
			return err
		}
	}
	logger.Info(ctx, "category crawl finished", "category", cat.Name, "rows", len(collected))
	return nil
}

func (c *Crawler) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// parseListing extracts the bill rows from one listing page. Rows with
// fewer than 7 cells are furniture (headers, separators) and skipped.
func parseListing(doc *goquery.Document, pageURL string) []listingRow {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var rows []listingRow
	doc.Find("table tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < 7 {
			return
		}

		progressText := strings.TrimSpace(cells.Eq(4).Text())
		row := listingRow{entry: model.ProgressEntry{
			Date:     firstField(progressText),
			BillName: strings.TrimSpace(cells.Eq(2).Text()),
			Proposer: strings.TrimSpace(cells.Eq(3).Text()),
			Progress: progressText,
			DocLinks: []string{},
		}}

		icon := cells.Eq(6).Find("img[src='" + docIconPath + "']").First()
		if href, ok := icon.Closest("a").Attr("href"); ok {
			row.entry.DocLinks = append(row.entry.DocLinks, resolveURL(base, href))
		}

		// Only the anchor wrapping the status image leads to the
		// detail page; plain text anchors in the same cell do not.
		anchor := cells.Eq(5).Find("a").First()
		if anchor.Find("img").Length() > 0 {
			if href, ok := anchor.Attr("href"); ok {
				row.detailURL = resolveURL(base, href)
			}
		}

		rows = append(rows, row)
	})
	return rows
}

// fetchProposalNumber reads the proposal number off a bill's detail
// page, trying the labeled table cell first and falling back to a text
// scan.
func (c *Crawler) fetchProposalNumber(ctx context.Context, detailURL string) (string, error) {
	doc, err := c.fetchDocument(ctx, detailURL)
	if err != nil {
		return "", err
	}

	var fromLabel string
	doc.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if strings.TrimSpace(td.Text()) != "提案編號" {
			return true
		}
		fromLabel = strings.TrimSpace(td.NextFiltered("td").Text())
		return false
	})
	if fromLabel != "" {
		return fromLabel, nil
	}

	if m := proposalNoPattern.FindStringSubmatch(doc.Text()); m != nil {
		no := strings.TrimSpace(m[1])
		// A very long match means the capture ran across unrelated
		// page text.
		if no != "" && utf8.RuneCountInString(no) < 100 {
			return no, nil
		}
	}
	return "", fmt.Errorf("no proposal number on %s", detailURL)
}

func nextPageURL(doc *goquery.Document, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	icon := doc.Find("img[src='" + nextIconPath + "']").First()
	if href, ok := icon.Closest("a").Attr("href"); ok {
		return resolveURL(base, href)
	}
	return ""
}

// downloadDocs saves the first retrievable attachment for one entry,
// skipping files already on disk so reruns do not re-download.
func (c *Crawler) downloadDocs(ctx context.Context, entry *model.ProgressEntry, year, month int) error {
	if len(entry.DocLinks) == 0 {
		return nil
	}

	folder := filepath.Join(c.DocDir, fmt.Sprintf("%d_%02d", year, month))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", folder, err)
	}

	name := SanitizeFilename(fmt.Sprintf("%s_%s_%s",
		orDefault(entry.Date, "未知日期"),
		orDefault(entry.Proposer, "未知提案人"),
		orDefault(entry.BillName, "未知法案"),
	)) + ".doc"
	path := filepath.Join(folder, name)

	if _, err := os.Stat(path); err == nil {
		logger.Debug(ctx, "document already downloaded", "file", name)
		return nil
	}

	for _, link := range entry.DocLinks {
		if err := c.downloadFile(ctx, link, path); err != nil {
			logger.Warn(ctx, "document download failed", "url", link, "error", err)
			continue
		}
		logger.Info(ctx, "document downloaded", "file", name)
		return sleep(ctx, c.RequestDelay)
	}
	return nil
}

func (c *Crawler) downloadFile(ctx context.Context, link, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (c *Crawler) writeProgressFile(catName string, entries []*model.ProgressEntry, year, month int) error {
	folder := filepath.Join(c.ProgressDir, fmt.Sprintf("%d_%02d", year, month))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", folder, err)
	}
	path := filepath.Join(folder, fmt.Sprintf("%d_%02d_%s.json", year, month, catName))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseMinguoDate parses a 7-digit republic-era date (e.g. 1140715 for
// 2025-07-15).
func parseMinguoDate(s string) (time.Time, bool) {
	if len(s) != 7 {
		return time.Time{}, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return time.Time{}, false
		}
	}
	year, _ := strconv.Atoi(s[0:3])
	month, _ := strconv.Atoi(s[3:5])
	day, _ := strconv.Atoi(s[5:7])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year+1911, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// SanitizeFilename strips filesystem-reserved characters and collapses
// whitespace runs to underscores.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	return whitespaceRuns.ReplaceAllString(name, "_")
}

func firstField(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
