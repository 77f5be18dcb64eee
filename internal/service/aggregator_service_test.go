package service

import (
	"testing"
	"time"

	"fin-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_JulyExample(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, models.KindIncome, "1000", day(2025, time.July, 3), f.food)
	f.add(t, f.alice, models.KindExpense, "150", day(2025, time.July, 10), f.food)
	f.add(t, f.alice, models.KindExpense, "40", day(2025, time.August, 1), f.food)

	s, err := f.aggregator.Summarize(f.ctx, f.alice, Window{Start: day(2025, time.July, 1), End: day(2025, time.August, 1)})
	require.NoError(t, err)
	assertDecimal(t, "1000", s.Income)
	assertDecimal(t, "150", s.Expense)
	assertDecimal(t, "850", s.Balance)
}

func TestSummarize_WindowBoundaries(t *testing.T) {
	f := newFixture(t)
	start, end := day(2025, time.March, 1), day(2025, time.April, 1)
	f.add(t, f.alice, models.KindExpense, "1", start, f.food)
	f.add(t, f.alice, models.KindExpense, "10", end, f.food)
	f.add(t, f.alice, models.KindExpense, "100", end.Add(-time.Nanosecond), f.food)

	s, err := f.aggregator.Summarize(f.ctx, f.alice, Window{Start: start, End: end})
	require.NoError(t, err)
	assertDecimal(t, "101", s.Expense)
}

func TestSummarize_IsWindowAdditive(t *testing.T) {
	f := newFixture(t)
	amounts := []string{"12.34", "0.01", "999.99", "7", "45.5", "3.33"}
	for i, a := range amounts {
		kind := models.KindExpense
		if i%2 == 0 {
			kind = models.KindIncome
		}
		f.add(t, f.alice, kind, a, day(2025, time.January, 1).AddDate(0, 0, i*11), f.food)
	}

	start, end := day(2025, time.January, 1), day(2025, time.March, 15)
	whole, err := f.aggregator.Summarize(f.ctx, f.alice, Window{Start: start, End: end})
	require.NoError(t, err)

	for _, split := range []time.Time{start, day(2025, time.January, 12), day(2025, time.February, 1), day(2025, time.February, 23), day(2025, time.March, 14)} {
		left, err := f.aggregator.Summarize(f.ctx, f.alice, Window{Start: start, End: split})
		require.NoError(t, err)
		right, err := f.aggregator.Summarize(f.ctx, f.alice, Window{Start: split, End: end})
		require.NoError(t, err)

		combined := left.Combine(right)
		assertDecimal(t, whole.Income.String(), combined.Income)
		assertDecimal(t, whole.Expense.String(), combined.Expense)
		assertDecimal(t, whole.Balance.String(), combined.Balance)
	}
}

func TestSummarize_InvalidWindow(t *testing.T) {
	f := newFixture(t)
	_, err := f.aggregator.Summarize(f.ctx, f.alice, Window{Start: day(2025, time.May, 1), End: day(2025, time.April, 1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.aggregator.Summarize(f.ctx, f.alice, Window{})
	assert.ErrorIs(t, err, ErrValidation)

	empty, err := f.aggregator.Summarize(f.ctx, f.alice, Window{Start: day(2025, time.May, 1), End: day(2025, time.May, 1)})
	require.NoError(t, err)
	assert.True(t, empty.Balance.IsZero())
}

func TestSummarize_IgnoresOtherOwners(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.bob, models.KindIncome, "500", day(2025, time.July, 3), f.food)

	s, err := f.aggregator.Summarize(f.ctx, f.alice, MonthWindow(2025, time.July))
	require.NoError(t, err)
	assert.True(t, s.Income.IsZero())
}

func TestCategoryBreakdown_TotalsMatchSummary(t *testing.T) {
	f := newFixture(t)
	rent := f.category(t, f.alice, "Rent")
	f.add(t, f.alice, models.KindExpense, "20.10", day(2025, time.July, 2), f.food)
	f.add(t, f.alice, models.KindExpense, "5.90", day(2025, time.July, 9), f.food)
	f.add(t, f.alice, models.KindExpense, "800", day(2025, time.July, 1), rent)
	f.add(t, f.alice, models.KindIncome, "3000", day(2025, time.July, 1), f.food)
	f.add(t, f.alice, models.KindExpense, "99", day(2025, time.June, 30), rent)

	july := MonthWindow(2025, time.July)
	b, err := f.aggregator.CategoryBreakdown(f.ctx, f.alice, july, models.KindExpense)
	require.NoError(t, err)
	require.Len(t, b, 2)
	assertDecimal(t, "26", b["Food"])
	assertDecimal(t, "800", b["Rent"])

	s, err := f.aggregator.Summarize(f.ctx, f.alice, july)
	require.NoError(t, err)
	total := b["Food"].Add(b["Rent"])
	assertDecimal(t, s.Expense.String(), total)

	income, err := f.aggregator.CategoryBreakdown(f.ctx, f.alice, july, models.KindIncome)
	require.NoError(t, err)
	assertDecimal(t, s.Income.String(), income["Food"])
}

func TestCategoryBreakdown_DeletedCategoryIsUncategorized(t *testing.T) {
	f := newFixture(t)
	hobby := f.category(t, f.alice, "Hobby")
	f.add(t, f.alice, models.KindExpense, "30", day(2025, time.July, 3), hobby)
	f.add(t, f.alice, models.KindExpense, "12", day(2025, time.July, 4), f.food)

	require.NoError(t, f.ledger.DeleteCategory(f.ctx, f.alice, hobby))

	b, err := f.aggregator.CategoryBreakdown(f.ctx, f.alice, MonthWindow(2025, time.July), models.KindExpense)
	require.NoError(t, err)
	assertDecimal(t, "30", b[models.UncategorizedLabel])
	assertDecimal(t, "12", b["Food"])
	_, stillThere := b["Hobby"]
	assert.False(t, stillThere)
}

func TestCategoryBreakdown_RejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	_, err := f.aggregator.CategoryBreakdown(f.ctx, f.alice, MonthWindow(2025, time.July), "transfer")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSortBreakdown(t *testing.T) {
	entries := SortBreakdown(Breakdown{
		"Rent":   dec("800"),
		"Food":   dec("26"),
		"Travel": dec("26"),
		"Books":  dec("3.5"),
	})
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"Rent", "Food", "Travel", "Books"}, labels)
	assert.Empty(t, SortBreakdown(nil))
}

func TestMonthlyTrend(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, models.KindIncome, "100", day(2024, time.December, 31), f.food)
	f.add(t, f.alice, models.KindExpense, "40", day(2025, time.January, 1), f.food)
	f.add(t, f.alice, models.KindExpense, "60", day(2025, time.February, 28), f.food)

	trend, err := f.aggregator.MonthlyTrend(f.ctx, f.alice, MonthWindow(2025, time.February), 3)
	require.NoError(t, err)
	require.Len(t, trend, 3)
	assert.Equal(t, "2024-12", trend[0].Window.Label())
	assert.Equal(t, "2025-01", trend[1].Window.Label())
	assert.Equal(t, "2025-02", trend[2].Window.Label())
	assertDecimal(t, "100", trend[0].Summary.Income)
	assertDecimal(t, "40", trend[1].Summary.Expense)
	assertDecimal(t, "-60", trend[2].Summary.Balance)

	_, err = f.aggregator.MonthlyTrend(f.ctx, f.alice, MonthWindow(2025, time.February), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	rent := f.category(t, f.alice, "Rent")
	f.add(t, f.alice, models.KindIncome, "2000", day(2025, time.July, 1), f.food)
	f.add(t, f.alice, models.KindExpense, "700", day(2025, time.July, 2), rent)
	f.add(t, f.alice, models.KindExpense, "50", day(2025, time.July, 8), f.food)
	f.add(t, f.alice, models.KindExpense, "300", day(2025, time.June, 15), f.food)

	d, err := f.aggregator.Dashboard(f.ctx, f.alice, time.Date(2025, time.July, 10, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-07", d.Month.Label())
	assertDecimal(t, "1250", d.Current.Balance)
	assertDecimal(t, "300", d.Previous.Expense)
	require.Len(t, d.Expenses, 2)
	assert.Equal(t, "Rent", d.Expenses[0].Label)
	assert.Equal(t, "Food", d.Expenses[1].Label)
}

func TestAggregator_RequiresOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.aggregator.Summarize(f.ctx, uuid.Nil, MonthWindow(2025, time.July))
	assert.ErrorIs(t, err, ErrValidation)
}
