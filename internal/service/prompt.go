package service

import (
	"fmt"
	"strings"
	"time"

	"fin-ledger/internal/models"
)

const analysisDirective = `Analyse my finances for the current month and answer briefly in four sections:
1. Overview: how my income and spending look this month.
2. Key opportunity: the single category or habit where I can save the most.
3. Action plan: two or three concrete steps for the next month.
4. Potential savings: an estimated monthly amount.`

const (
	noProfileNote      = "Profile data is unavailable."
	noTransactionsNote = "No transaction data available."
)

// insightContext is what the generator knows about the user. Nil parts were not available.
type insightContext struct {
	profile      *models.User
	month        Window
	summary      *Summary
	expenses     []BreakdownEntry
	recent       []*models.Transaction
	txCount      int
	categoryName map[string]string
}

func buildPrompt(c insightContext, userPrompt string) string {
	var b strings.Builder

	b.WriteString("User context\n")
	if c.profile != nil {
		name := c.profile.Name
		if name == "" {
			name = c.profile.Username
		}
		fmt.Fprintf(&b, "Name: %s\n", name)
		if c.profile.AverageIncome != nil {
			fmt.Fprintf(&b, "Average monthly income: %s\n", c.profile.AverageIncome.StringFixed(2))
		} else {
			b.WriteString("Average monthly income: not provided\n")
		}
	} else {
		b.WriteString(noProfileNote + "\n")
	}

	if c.summary == nil {
		b.WriteString(noTransactionsNote + "\n")
	} else {
		fmt.Fprintf(&b, "\nMonth %s: income %s, expenses %s, balance %s\n",
			c.month.Label(),
			c.summary.Income.StringFixed(2),
			c.summary.Expense.StringFixed(2),
			c.summary.Balance.StringFixed(2))

		if len(c.expenses) > 0 {
			b.WriteString("Expenses by category:\n")
			for _, e := range c.expenses {
				fmt.Fprintf(&b, "- %s: %s\n", e.Label, e.Amount.StringFixed(2))
			}
		}

		if len(c.recent) > 0 {
			b.WriteString("Recent transactions:\n")
			for _, tx := range c.recent {
				label := c.categoryName[tx.CategoryID.String()]
				if label == "" {
					label = models.UncategorizedLabel
				}
				fmt.Fprintf(&b, "- %s %s %s %s", tx.Date.Format(time.DateOnly), tx.Kind, tx.Amount.StringFixed(2), label)
				if tx.Description != "" {
					fmt.Fprintf(&b, " (%s)", tx.Description)
				}
				b.WriteString("\n")
			}
		} else if c.txCount == 0 {
			b.WriteString("No transactions recorded yet.\n")
		}
	}

	b.WriteString("\n")
	if userPrompt != "" {
		b.WriteString("Question: ")
		b.WriteString(userPrompt)
	} else {
		b.WriteString(analysisDirective)
	}
	return b.String()
}
