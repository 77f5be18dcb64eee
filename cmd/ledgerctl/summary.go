package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"fin-ledger/internal/backend"
	"fin-ledger/internal/models"
	"fin-ledger/internal/service"
	"fin-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	var (
		userID string
		month  string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a user's monthly summary",
		Long:  `Print income, expense and balance for one month, followed by expenses per category.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			w := service.MonthOf(time.Now())
			if month != "" {
				if w, err = service.ParseYearMonth(month); err != nil {
					return err
				}
			}

			opened, err := backend.Open(cmd.Context(), cfg, logger.Component("store"))
			if err != nil {
				return err
			}
			defer opened.Cleanup()

			ledger := service.NewLedgerService(opened.Store, nil, logger.Component("ledger"))
			aggregator := service.NewAggregatorService(ledger, logger.Component("aggregator"))

			summary, err := aggregator.Summarize(cmd.Context(), owner, w)
			if err != nil {
				return err
			}
			expenses, err := aggregator.CategoryBreakdown(cmd.Context(), owner, w, models.KindExpense)
			if err != nil {
				return err
			}

			return renderSummary(cmd.OutOrStdout(), w, summary, service.SortBreakdown(expenses))
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner id")
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderSummary(out io.Writer, w service.Window, s service.Summary, expenses []service.BreakdownEntry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "Month\t%s\t\n", w.Label())
	fmt.Fprintf(tw, "Income\t%s\t\n", s.Income.StringFixed(2))
	fmt.Fprintf(tw, "Expense\t%s\t\n", s.Expense.StringFixed(2))
	fmt.Fprintf(tw, "Balance\t%s\t\n", s.Balance.StringFixed(2))
	fmt.Fprintln(tw, "\t\t")

	fmt.Fprintln(tw, "Category\tSpent\t")
	if len(expenses) == 0 {
		fmt.Fprintln(tw, "(none)\t\t")
	}
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t\n", e.Label, e.Amount.StringFixed(2))
	}
	return tw.Flush()
}
