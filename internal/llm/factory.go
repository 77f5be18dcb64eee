package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewClient builds the provider client selected by cfg.Provider.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gigachat", "":
		return newGigaChatClient(cfg, logger)
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
