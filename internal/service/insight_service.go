package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"fin-ledger/internal/events"
	"fin-ledger/internal/llm"
	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"
	"fin-ledger/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type InsightConfig struct {
	Timeout            time.Duration
	RecentTransactions int
}

// GenerateResult is a stored suggestion plus what was missing from its context.
type GenerateResult struct {
	Suggestion      *models.Suggestion
	ContextDegraded bool
	Missing         []string
}

// InsightService builds a prompt from the ledger, calls the provider and stores the answer.
// Nothing is stored unless the provider succeeds.
type InsightService struct {
	users       repository.UserStore
	suggestions repository.SuggestionStore
	ledger      *LedgerService
	client      llm.Client
	publisher   events.Publisher
	cfg         InsightConfig
	logger      *zap.Logger
	now         func() time.Time
}

func NewInsightService(
	store *repository.Store,
	ledger *LedgerService,
	client llm.Client,
	publisher events.Publisher,
	cfg InsightConfig,
	logger *zap.Logger,
) *InsightService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &InsightService{
		users:       store.Users,
		suggestions: store.Suggestions,
		ledger:      ledger,
		client:      client,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Generate answers userPrompt, or runs the default analysis when it is nil or blank.
func (s *InsightService) Generate(ctx context.Context, ownerID uuid.UUID, userPrompt *string) (*GenerateResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	question := ""
	if userPrompt != nil {
		question = strings.TrimSpace(*userPrompt)
	}

	ic, missing := s.buildContext(ctx, ownerID)
	prompt := buildPrompt(ic, question)

	// the provider call outlives client abandonment; only the deadline stops it
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	started := time.Now()
	text, err := s.client.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			s.logger.Error("Suggestion provider timed out", logger.Owner(ownerID), zap.Duration("timeout", s.cfg.Timeout))
			return nil, ErrProviderTimeout
		}
		s.logger.Error("Suggestion provider failed", logger.Owner(ownerID), zap.Error(err))
		return nil, errors.Join(ErrProvider, err)
	}

	text = strings.TrimSpace(sanitizeUTF8(text))
	if text == "" {
		s.logger.Error("Suggestion provider returned empty text", logger.Owner(ownerID))
		return nil, errors.Join(ErrProvider, llm.ErrEmptyResponse)
	}

	suggestion := &models.Suggestion{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Prompt:    sanitizeUTF8(prompt),
		Response:  text,
		CreatedAt: s.now().UTC(),
	}
	persistCtx := context.WithoutCancel(ctx)
	if err := s.suggestions.Create(persistCtx, suggestion); err != nil {
		return nil, err
	}

	s.logger.Info("Suggestion generated",
		logger.Owner(ownerID),
		zap.String("suggestion_id", suggestion.ID.String()),
		zap.Bool("custom_prompt", question != ""),
		zap.Bool("context_degraded", len(missing) > 0),
		zap.Duration("provider_latency", time.Since(started)),
	)
	if err := s.publisher.Publish(persistCtx, events.New(events.SuggestionCreated, ownerID, suggestion.ID)); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", events.SuggestionCreated), zap.Error(err))
	}

	return &GenerateResult{
		Suggestion:      suggestion,
		ContextDegraded: len(missing) > 0,
		Missing:         missing,
	}, nil
}

// History lists the owner's suggestions, newest first.
func (s *InsightService) History(ctx context.Context, ownerID uuid.UUID) ([]*models.Suggestion, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.suggestions.ListByOwner(ctx, ownerID)
}

// buildContext gathers the profile and the ledger snapshot concurrently. Failures
// are absorbed: the part is left out and its name is returned in missing.
func (s *InsightService) buildContext(ctx context.Context, ownerID uuid.UUID) (insightContext, []string) {
	ic := insightContext{month: MonthOf(s.now())}

	var (
		profileErr error
		ledgerErr  error
		txs        []*models.Transaction
		categories []*models.Category
	)

	var g errgroup.Group
	g.Go(func() error {
		ic.profile, profileErr = s.users.GetByID(ctx, ownerID)
		return nil
	})
	g.Go(func() error {
		txs, ledgerErr = s.ledger.ListTransactions(ctx, ownerID)
		if ledgerErr != nil {
			return nil
		}
		// categories only label the output; without them everything is uncategorized
		var err error
		categories, err = s.ledger.ListCategories(ctx, ownerID)
		if err != nil {
			s.logger.Warn("Insight context: categories unavailable", logger.Owner(ownerID), zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	var missing []string
	if profileErr != nil {
		ic.profile = nil
		missing = append(missing, "profile")
		s.logger.Warn("Insight context degraded", logger.Owner(ownerID), zap.String("part", "profile"),
			zap.Error(errors.Join(ErrContextUnavailable, profileErr)))
	}
	if ledgerErr != nil {
		missing = append(missing, "transactions")
		s.logger.Warn("Insight context degraded", logger.Owner(ownerID), zap.String("part", "transactions"),
			zap.Error(errors.Join(ErrContextUnavailable, ledgerErr)))
		return ic, missing
	}

	summary := summarize(txs, ic.month)
	ic.summary = &summary
	ic.expenses = SortBreakdown(breakdown(txs, categories, ic.month, models.KindExpense))

	ic.categoryName = make(map[string]string, len(categories))
	for _, c := range categories {
		ic.categoryName[c.ID.String()] = c.Name
	}

	recent := append([]*models.Transaction(nil), txs...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if n := s.cfg.RecentTransactions; n >= 0 && len(recent) > n {
		recent = recent[:n]
	}
	ic.recent = recent
	ic.txCount = len(txs)

	return ic, missing
}
