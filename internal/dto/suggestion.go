package dto

type SuggestionRequest struct {
	Prompt *string `json:"prompt,omitempty"`
}

type SuggestionResponse struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	CreatedAt string `json:"created_at"`
}

type GenerateSuggestionResponse struct {
	Suggestion      SuggestionResponse `json:"suggestion"`
	ContextDegraded bool               `json:"context_degraded"`
	MissingContext  []string           `json:"missing_context,omitempty"`
}
