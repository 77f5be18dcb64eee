package handlers

import (
	"strconv"
	"time"

	"fin-ledger/internal/dto"
	"fin-ledger/internal/models"
	"fin-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultTrendMonths = 6

type SummaryHandler struct {
	aggregator *service.AggregatorService
	logger     *zap.Logger
	now        func() time.Time
}

func NewSummaryHandler(aggregator *service.AggregatorService, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{
		aggregator: aggregator,
		logger:     logger,
		now:        time.Now,
	}
}

// GetSummary godoc
// @Summary Income, expense and balance for a window
// @Description Window is either ?month=YYYY-MM or ?from=&to= (half-open). Defaults to the current month.
// @Tags summary
// @Produce json
// @Security Bearer
// @Param month query string false "Month, YYYY-MM"
// @Param from query string false "Window start, inclusive"
// @Param to query string false "Window end, exclusive"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string
// @Router /summary [get]
func (h *SummaryHandler) GetSummary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	w, err := h.window(c)
	if err != nil {
		return respondError(c, h.logger, err, "Summary")
	}

	summary, err := h.aggregator.Summarize(c.Context(), userID, w)
	if err != nil {
		return respondError(c, h.logger, err, "Summary")
	}

	return c.JSON(toSummaryResponse(w, summary))
}

// GetCategoryBreakdown godoc
// @Summary Totals per category
// @Description Sums one kind per category label, largest first. Unresolvable categories report as Uncategorized.
// @Tags summary
// @Produce json
// @Security Bearer
// @Param kind query string false "income or expense" default(expense)
// @Param month query string false "Month, YYYY-MM"
// @Param from query string false "Window start, inclusive"
// @Param to query string false "Window end, exclusive"
// @Success 200 {object} dto.BreakdownResponse
// @Failure 400 {object} map[string]string
// @Router /summary/categories [get]
func (h *SummaryHandler) GetCategoryBreakdown(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	w, err := h.window(c)
	if err != nil {
		return respondError(c, h.logger, err, "Category breakdown")
	}
	kind := models.TransactionKind(c.Query("kind", string(models.KindExpense)))

	b, err := h.aggregator.CategoryBreakdown(c.Context(), userID, w, kind)
	if err != nil {
		return respondError(c, h.logger, err, "Category breakdown")
	}

	return c.JSON(dto.BreakdownResponse{
		From:       w.Start.Format(time.RFC3339),
		To:         w.End.Format(time.RFC3339),
		Kind:       string(kind),
		Categories: toBreakdownEntries(service.SortBreakdown(b)),
	})
}

// GetTrend godoc
// @Summary Monthly trend
// @Description Consecutive month summaries ending with ?month (default current), oldest first
// @Tags summary
// @Produce json
// @Security Bearer
// @Param month query string false "Last month, YYYY-MM"
// @Param months query int false "Number of months, 1 to 24" default(6)
// @Success 200 {array} dto.TrendPoint
// @Failure 400 {object} map[string]string
// @Router /summary/trend [get]
func (h *SummaryHandler) GetTrend(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	last := service.MonthOf(h.now())
	if month := c.Query("month"); month != "" {
		if last, err = service.ParseYearMonth(month); err != nil {
			return respondError(c, h.logger, err, "Trend")
		}
	}
	months := defaultTrendMonths
	if raw := c.Query("months"); raw != "" {
		if months, err = strconv.Atoi(raw); err != nil {
			return badRequest(c, "months must be a number")
		}
	}

	trend, err := h.aggregator.MonthlyTrend(c.Context(), userID, last, months)
	if err != nil {
		return respondError(c, h.logger, err, "Trend")
	}

	resp := make([]dto.TrendPoint, 0, len(trend))
	for _, m := range trend {
		resp = append(resp, dto.TrendPoint{
			Month:   m.Window.Label(),
			Income:  m.Summary.Income.InexactFloat64(),
			Expense: m.Summary.Expense.InexactFloat64(),
			Balance: m.Summary.Balance.InexactFloat64(),
		})
	}
	return c.JSON(resp)
}

// GetDashboard godoc
// @Summary Dashboard
// @Description Current month, previous month and current expenses by category
// @Tags summary
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DashboardResponse
// @Router /dashboard [get]
func (h *SummaryHandler) GetDashboard(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	d, err := h.aggregator.Dashboard(c.Context(), userID, h.now())
	if err != nil {
		return respondError(c, h.logger, err, "Dashboard")
	}

	previous := service.MonthOf(d.Month.Start.AddDate(0, -1, 0))
	return c.JSON(dto.DashboardResponse{
		Month:    d.Month.Label(),
		Current:  toSummaryResponse(d.Month, d.Current),
		Previous: toSummaryResponse(previous, d.Previous),
		Expenses: toBreakdownEntries(d.Expenses),
	})
}

// window reads ?month first, then ?from and ?to. With neither it is the current month.
func (h *SummaryHandler) window(c *fiber.Ctx) (service.Window, error) {
	if month := c.Query("month"); month != "" {
		return service.ParseYearMonth(month)
	}

	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		return service.MonthOf(h.now()), nil
	}
	if from == "" || to == "" {
		return service.Window{}, requestValidation("from and to must be given together")
	}

	start, err := parseDate(from)
	if err != nil {
		return service.Window{}, requestValidation("from must be YYYY-MM-DD or RFC 3339")
	}
	end, err := parseDate(to)
	if err != nil {
		return service.Window{}, requestValidation("to must be YYYY-MM-DD or RFC 3339")
	}
	return service.Window{Start: start, End: end}, nil
}

func toSummaryResponse(w service.Window, s service.Summary) dto.SummaryResponse {
	return dto.SummaryResponse{
		From:    w.Start.Format(time.RFC3339),
		To:      w.End.Format(time.RFC3339),
		Income:  s.Income.InexactFloat64(),
		Expense: s.Expense.InexactFloat64(),
		Balance: s.Balance.InexactFloat64(),
	}
}

func toBreakdownEntries(entries []service.BreakdownEntry) []dto.BreakdownEntry {
	resp := make([]dto.BreakdownEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.BreakdownEntry{Label: e.Label, Amount: e.Amount.InexactFloat64()})
	}
	return resp
}
