// Package llm wraps the text generation providers used to produce spending suggestions.
package llm

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyResponse is returned when the provider answers without any usable text.
var ErrEmptyResponse = errors.New("empty response from provider")

// Client turns a fully assembled prompt into generated text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

type Config struct {
	Provider           string
	APIKey             string
	Scope              string
	Model              string
	BaseURL            string
	Temperature        float64
	Timeout            time.Duration
	InsecureSkipVerify bool
}

const systemInstruction = `You are a personal finance advisor. You receive a user's question together with a snapshot of their ledger: profile, current month totals, spending by category and recent transactions.

Rules:
- Base every statement on the figures provided. Never invent transactions or amounts.
- When some context is reported as unavailable, say so and keep the advice general for that part.
- Be concrete: name categories and amounts, and estimate savings in the same currency units as the data.
- Answer in plain text with the sections requested by the user message.`
