package dto

type SummaryResponse struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type BreakdownEntry struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// BreakdownResponse lists categories by amount, largest first.
type BreakdownResponse struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Kind       string           `json:"kind"`
	Categories []BreakdownEntry `json:"categories"`
}

type TrendPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type DashboardResponse struct {
	Month    string           `json:"month"`
	Current  SummaryResponse  `json:"current"`
	Previous SummaryResponse  `json:"previous"`
	Expenses []BreakdownEntry `json:"expenses"`
}
