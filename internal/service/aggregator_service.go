package service

import (
	"context"
	"sort"
	"time"

	"fin-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxTrendMonths = 24

type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Combine adds two summaries component-wise.
func (s Summary) Combine(other Summary) Summary {
	return Summary{
		Income:  s.Income.Add(other.Income),
		Expense: s.Expense.Add(other.Expense),
		Balance: s.Balance.Add(other.Balance),
	}
}

// Breakdown maps a category label to its summed amount. Keys carry no order.
type Breakdown map[string]decimal.Decimal

type BreakdownEntry struct {
	Label  string
	Amount decimal.Decimal
}

// SortBreakdown orders entries by amount descending, then label ascending.
func SortBreakdown(b Breakdown) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(b))
	for label, amount := range b {
		entries = append(entries, BreakdownEntry{Label: label, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Amount.Cmp(entries[j].Amount); c != 0 {
			return c > 0
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

type MonthSummary struct {
	Window  Window
	Summary Summary
}

type Dashboard struct {
	Month    Window
	Current  Summary
	Previous Summary
	Expenses []BreakdownEntry
}

// AggregatorService derives summaries from the owner's transactions. It reads through
// the ledger and never writes.
type AggregatorService struct {
	ledger *LedgerService
	logger *zap.Logger
}

func NewAggregatorService(ledger *LedgerService, logger *zap.Logger) *AggregatorService {
	return &AggregatorService{
		ledger: ledger,
		logger: logger,
	}
}

func (s *AggregatorService) Summarize(ctx context.Context, ownerID uuid.UUID, w Window) (Summary, error) {
	if err := w.validate(); err != nil {
		return Summary{}, err
	}
	transactions, err := s.ledger.ListTransactions(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(transactions, w), nil
}

func (s *AggregatorService) CategoryBreakdown(ctx context.Context, ownerID uuid.UUID, w Window, kind models.TransactionKind) (Breakdown, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, validationError("kind must be income or expense")
	}

	transactions, categories, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return breakdown(transactions, categories, w, kind), nil
}

// MonthlyTrend returns n consecutive month summaries ending with last, oldest first.
func (s *AggregatorService) MonthlyTrend(ctx context.Context, ownerID uuid.UUID, last Window, n int) ([]MonthSummary, error) {
	if n < 1 || n > maxTrendMonths {
		return nil, validationError("months must be between 1 and %d", maxTrendMonths)
	}
	if err := last.validate(); err != nil {
		return nil, err
	}

	transactions, err := s.ledger.ListTransactions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	trend := make([]MonthSummary, n)
	for i := 0; i < n; i++ {
		start := last.Start.AddDate(0, -(n - 1 - i), 0)
		w := MonthWindow(start.Year(), start.Month())
		trend[i] = MonthSummary{Window: w, Summary: summarize(transactions, w)}
	}
	return trend, nil
}

// Dashboard reports the month containing now, the previous full month and the
// current month's expenses by category.
func (s *AggregatorService) Dashboard(ctx context.Context, ownerID uuid.UUID, now time.Time) (*Dashboard, error) {
	transactions, categories, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	current := MonthOf(now)
	previous := MonthOf(current.Start.AddDate(0, -1, 0))

	return &Dashboard{
		Month:    current,
		Current:  summarize(transactions, current),
		Previous: summarize(transactions, previous),
		Expenses: SortBreakdown(breakdown(transactions, categories, current, models.KindExpense)),
	}, nil
}

// load fetches transactions and visible categories concurrently.
func (s *AggregatorService) load(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, []*models.Category, error) {
	var (
		transactions []*models.Transaction
		categories   []*models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.ledger.ListTransactions(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.ledger.ListCategories(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return transactions, categories, nil
}

func summarize(transactions []*models.Transaction, w Window) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range transactions {
		if !w.Contains(tx.Date) {
			continue
		}
		switch tx.Kind {
		case models.KindIncome:
			income = income.Add(tx.Amount)
		case models.KindExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Summary{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// breakdown groups by category label. Ids with no visible category fall under
// models.UncategorizedLabel; distinct categories sharing a name share a bucket.
func breakdown(transactions []*models.Transaction, categories []*models.Category, w Window, kind models.TransactionKind) Breakdown {
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	out := make(Breakdown)
	for _, tx := range transactions {
		if tx.Kind != kind || !w.Contains(tx.Date) {
			continue
		}
		label, ok := names[tx.CategoryID]
		if !ok {
			label = models.UncategorizedLabel
		}
		out[label] = out[label].Add(tx.Amount)
	}
	return out
}
