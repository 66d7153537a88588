package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jing2626/legislativeai/model"
	"github.com/jing2626/legislativeai/pkg/logger"
	"github.com/jing2626/legislativeai/service"
)

// defaultRangeMonths is how many recent months a range endpoint covers
// when the caller gives no explicit start/end.
const defaultRangeMonths = 3

type BillHandler struct {
	store *service.DataStore
}

func NewBillHandler(store *service.DataStore) *BillHandler {
	return &BillHandler{store: store}
}

// RegisterRoutes mounts every read endpoint under the given group.
func (h *BillHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/categories", h.Categories)
	api.GET("/available-months", h.AvailableMonths)
	api.GET("/bills/summary/:year/:month", h.Summary)
	api.GET("/bills/summary-range", h.SummaryRange)
	api.GET("/bills/:year/:month", h.Bills)
	api.GET("/bills-range", h.BillsRange)
	api.GET("/bills/all/:year/:month", h.AllBills)
	api.GET("/bills/all-range", h.AllBillsRange)
	api.GET("/legislators.json", h.Legislators)
	api.GET("/venn-data/:year/:month", h.VennData)
	api.GET("/party-stats", h.PartyStats)
	api.GET("/party-bills", h.PartyBills)
}

// Categories returns the code-to-display-label dictionary.
func (h *BillHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, model.CategoryDefinitions)
}

// AvailableMonths lists every month with enriched data, newest first.
func (h *BillHandler) AvailableMonths(c *gin.Context) {
	months := h.store.AvailableMonths()

	result := make([]gin.H, 0, len(months))
	for _, m := range months {
		result = append(result, gin.H{
			"year":  m.Year,
			"month": m.Month,
			"label": m.Label(),
		})
	}
	c.JSON(http.StatusOK, result)
}

// Summary returns per-category bill counts for one month.
func (h *BillHandler) Summary(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	bills, err := h.store.LoadBills(year, month)
	if err != nil {
		h.respondError(c, err, "failed to load bill data")
		return
	}
	c.JSON(http.StatusOK, service.SummarizeCategories(bills))
}

// SummaryRange returns per-category counts over a month range, or the
// latest months when no range is given.
func (h *BillHandler) SummaryRange(c *gin.Context) {
	bills, err := h.loadRange(c)
	if err != nil {
		h.respondError(c, err, "failed to load bill data")
		return
	}
	c.JSON(http.StatusOK, service.SummarizeCategories(bills))
}

// Bills returns one month's bills, optionally filtered by category.
func (h *BillHandler) Bills(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	bills, err := h.store.LoadBills(year, month)
	if err != nil {
		h.respondError(c, err, "failed to load bill data")
		return
	}
	c.JSON(http.StatusOK, service.FilterByCategory(bills, c.Query("category")))
}

// BillsRange returns the bills of a month range with optional category
// filter.
func (h *BillHandler) BillsRange(c *gin.Context) {
	bills, err := h.loadRange(c)
	if err != nil {
		h.respondError(c, err, "failed to load bill data")
		return
	}
	c.JSON(http.StatusOK, service.FilterByCategory(bills, c.Query("category")))
}

// AllBills returns one month's bills unfiltered, for client-side search.
func (h *BillHandler) AllBills(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	bills, err := h.store.LoadBills(year, month)
	if err != nil {
		h.respondError(c, err, "failed to load bill data")
		return
	}
	c.JSON(http.StatusOK, bills)
}

// AllBillsRange returns the bills of a month range unfiltered.
func (h *BillHandler) AllBillsRange(c *gin.Context) {
	bills, err := h.loadRange(c)
	if err != nil {
		h.respondError(c, err, "failed to load bill data")
		return
	}
	c.JSON(http.StatusOK, bills)
}

// Legislators serves the raw legislator roster.
func (h *BillHandler) Legislators(c *gin.Context) {
	roster, err := h.store.LoadLegislators()
	if err != nil {
		h.respondError(c, err, "failed to load legislator data")
		return
	}
	c.JSON(http.StatusOK, roster)
}

// VennData joins the set-overlap structure with the month's full bill
// records.
func (h *BillHandler) VennData(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	venn, err := h.store.LoadVenn(year, month)
	if err != nil {
		h.respondError(c, err, "failed to load venn data")
		return
	}
	bills, err := h.store.LoadBills(year, month)
	if err != nil {
		h.respondError(c, err, "failed to load venn data")
		return
	}
	c.JSON(http.StatusOK, service.JoinVennData(venn, bills))
}

// PartyStats returns the party participation summary over a range.
func (h *BillHandler) PartyStats(c *gin.Context) {
	roster, err := h.store.LoadLegislators()
	if err != nil {
		h.respondError(c, err, "failed to load party statistics")
		return
	}
	bills, err := h.loadRange(c)
	if err != nil {
		h.respondError(c, err, "failed to load party statistics")
		return
	}
	c.JSON(http.StatusOK, service.BuildPartyStats(bills, roster))
}

// PartyBills returns the bills of one party bucket over a range. The
// party parameter is required and must name a known bucket.
func (h *BillHandler) PartyBills(c *gin.Context) {
	party := c.Query("party")
	if party == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party parameter is required"})
		return
	}

	roster, err := h.store.LoadLegislators()
	if err != nil {
		h.respondError(c, err, "failed to load party bills")
		return
	}
	bills, err := h.loadRange(c)
	if err != nil {
		h.respondError(c, err, "failed to load party bills")
		return
	}

	stats := service.AnalyzePartyParticipation(bills, roster)
	bucket, ok := stats[party]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown party bucket"})
		return
	}
	c.JSON(http.StatusOK, bucket)
}

// loadRange loads the bills selected by the start/end query parameters,
// falling back to the most recent months with data.
func (h *BillHandler) loadRange(c *gin.Context) ([]*model.BillRecord, error) {
	start, end := c.Query("start"), c.Query("end")

	var months []service.Month
	if start == "" || end == "" {
		months = h.store.LatestMonths(defaultRangeMonths)
		if len(months) == 0 {
			return nil, service.ErrNotFound
		}
	} else {
		requested, err := service.ParseMonthRange(start, end)
		if err != nil {
			return nil, err
		}
		months = h.store.FilterAvailable(requested)
		if len(months) == 0 {
			return nil, service.ErrNotFound
		}
	}

	return h.store.LoadMonths(months)
}

// monthParams parses the :year/:month path segments, answering 400
// itself when they are malformed.
func monthParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	return year, month, true
}

// respondError maps service errors onto the HTTP taxonomy. Details go
// to the log; clients get a generic message.
func (h *BillHandler) respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for the requested period"})
	default:
		logger.Error(c.Request.Context(), message, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
