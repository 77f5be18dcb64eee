package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fin-ledger/internal/events"
	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"
	"fin-ledger/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	ctx        context.Context
	store      *repository.Store
	events     *events.Recorder
	ledger     *LedgerService
	aggregator *AggregatorService
	alice, bob uuid.UUID
	food       uuid.UUID // global
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:    context.Background(),
		store:  memory.New(),
		events: &events.Recorder{},
		alice:  uuid.New(),
		bob:    uuid.New(),
	}
	f.ledger = NewLedgerService(f.store, f.events, zap.NewNop())
	f.aggregator = NewAggregatorService(f.ledger, zap.NewNop())

	food := &models.Category{ID: uuid.New(), Name: "Food", CreatedAt: time.Now()}
	require.NoError(t, f.store.Categories.Create(f.ctx, food))
	f.food = food.ID
	return f
}

func (f *fixture) add(t *testing.T, owner uuid.UUID, kind models.TransactionKind, amount string, on time.Time, category uuid.UUID) *models.Transaction {
	t.Helper()
	tx, err := f.ledger.CreateTransaction(f.ctx, owner, TransactionInput{
		Amount:     decp(amount),
		Kind:       kind,
		Date:       on,
		CategoryID: category,
	})
	require.NoError(t, err)
	return tx
}

func (f *fixture) category(t *testing.T, owner uuid.UUID, name string) uuid.UUID {
	t.Helper()
	c, err := f.ledger.CreateCategory(f.ctx, owner, name)
	require.NoError(t, err)
	return c.ID
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// fakeLLM returns canned text or an error, optionally after a delay that honours ctx.
type fakeLLM struct {
	mu      sync.Mutex
	text    string
	err     error
	delay   time.Duration
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}
