package dto

// TransactionRequest is used for both create and full-replace update.
// Date accepts YYYY-MM-DD or RFC 3339.
type TransactionRequest struct {
	Amount      *float64 `json:"amount"`
	Kind        string   `json:"kind"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	CategoryID  string   `json:"category_id"`
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Kind        string  `json:"kind"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
