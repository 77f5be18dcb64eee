package service

import (
	"fmt"
	"time"
)

const yearMonthLayout = "2006-01"

// Window is the half-open date range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return validationError("window start and end are required")
	}
	if w.End.Before(w.Start) {
		return validationError("window end %s is before start %s", w.End.Format(time.DateOnly), w.Start.Format(time.DateOnly))
	}
	return nil
}

// MonthWindow returns [first day of month, first day of next month) in UTC.
func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// MonthOf returns the calendar month window containing t.
func MonthOf(t time.Time) Window {
	t = t.UTC()
	return MonthWindow(t.Year(), t.Month())
}

// ParseYearMonth turns "YYYY-MM" into its month window.
func ParseYearMonth(s string) (Window, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return Window{}, validationError("month must be YYYY-MM, got %q", s)
	}
	return MonthWindow(t.Year(), t.Month()), nil
}

// Label formats the window start as YYYY-MM.
func (w Window) Label() string {
	return w.Start.Format(yearMonthLayout)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}
