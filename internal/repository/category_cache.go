package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fin-ledger/internal/models"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CachedCategoryStore keeps category lookups in memory. Categories are read on
// every transaction write and every breakdown, but change rarely.
//
// Owned categories invalidate only their owner's list. Global ones change the
// visible set of every user and clear all lists.
//
// A read from the wrapped store is cached only if no write invalidated it
// while the read was in flight. Every invalidation bumps a generation counter
// that fills compare against.
type CachedCategoryStore struct {
	next    CategoryStore
	byID    *ristretto.Cache[string, *models.Category]
	visible *ristretto.Cache[string, []*models.Category]
	ttl     time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	global uint64
	keys   map[string]uint64
}

func NewCachedCategoryStore(next CategoryStore, numCounters, maxCost int64, ttl time.Duration, logger *zap.Logger) (*CachedCategoryStore, error) {
	byID, err := ristretto.NewCache(&ristretto.Config[string, *models.Category]{
		NumCounters:        numCounters,
		MaxCost:            maxCost,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize category cache: %w", err)
	}
	visible, err := ristretto.NewCache(&ristretto.Config[string, []*models.Category]{
		NumCounters:        numCounters,
		MaxCost:            maxCost,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		byID.Close()
		return nil, fmt.Errorf("failed to initialize category list cache: %w", err)
	}

	return &CachedCategoryStore{
		next:    next,
		byID:    byID,
		visible: visible,
		ttl:     ttl,
		logger:  logger,
		keys:    make(map[string]uint64),
	}, nil
}

func (s *CachedCategoryStore) Create(ctx context.Context, category *models.Category) error {
	if err := s.next.Create(ctx, category); err != nil {
		return err
	}
	s.invalidate(category.OwnerID)
	return nil
}

func (s *CachedCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	key := id.String()
	if c, ok := s.byID.Get(key); ok {
		return c, nil
	}

	gen := s.generation(key)
	c, err := s.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.current(key, gen) {
		s.byID.SetWithTTL(key, c, 1, s.ttl)
	}
	s.mu.Unlock()
	return c, nil
}

func (s *CachedCategoryStore) ListVisible(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	key := visibleKey(ownerID)
	if list, ok := s.visible.Get(key); ok {
		return list, nil
	}

	gen := s.generation(key)
	list, err := s.next.ListVisible(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.fill(key, gen, list)
	return list, nil
}

func (s *CachedCategoryStore) ListGlobal(ctx context.Context) ([]*models.Category, error) {
	const key = "global"
	if list, ok := s.visible.Get(key); ok {
		return list, nil
	}

	gen := s.generation(key)
	list, err := s.next.ListGlobal(ctx)
	if err != nil {
		return nil, err
	}
	s.fill(key, gen, list)
	return list, nil
}

func (s *CachedCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	var owner *uuid.UUID
	existing, lookupErr := s.next.GetByID(ctx, id)
	if lookupErr == nil {
		owner = existing.OwnerID
	}

	err := s.next.Delete(ctx, id)
	s.mu.Lock()
	s.keys[id.String()]++
	s.byID.Del(id.String())
	s.mu.Unlock()
	if lookupErr != nil {
		// owner unknown, so any list may hold the row
		s.clear()
		return err
	}
	s.invalidate(owner)
	return err
}

// Wait blocks until pending cache writes are applied.
func (s *CachedCategoryStore) Wait() {
	s.byID.Wait()
	s.visible.Wait()
}

func (s *CachedCategoryStore) Close() {
	s.byID.Close()
	s.visible.Close()
}

func (s *CachedCategoryStore) invalidate(owner *uuid.UUID) {
	if owner == nil {
		s.clear()
		return
	}
	key := visibleKey(*owner)
	s.mu.Lock()
	s.keys[key]++
	s.visible.Del(key)
	s.mu.Unlock()
}

func (s *CachedCategoryStore) clear() {
	s.mu.Lock()
	s.global++
	// per-key counters are subsumed by the global one
	clear(s.keys)
	s.byID.Clear()
	s.visible.Clear()
	s.mu.Unlock()
	s.logger.Debug("category cache cleared")
}

// generation identifies the cache state a read of key starts from.
func (s *CachedCategoryStore) generation(key string) [2]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return [2]uint64{s.global, s.keys[key]}
}

// current reports whether key is unchanged since gen was taken. Callers hold mu.
func (s *CachedCategoryStore) current(key string, gen [2]uint64) bool {
	if gen != [2]uint64{s.global, s.keys[key]} {
		s.logger.Debug("skipping stale category read", zap.String("key", key))
		return false
	}
	return true
}

// fill caches list unless key was invalidated after gen was taken.
func (s *CachedCategoryStore) fill(key string, gen [2]uint64, list []*models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current(key, gen) {
		s.visible.SetWithTTL(key, list, int64(len(list)+1), s.ttl)
	}
}

func visibleKey(owner uuid.UUID) string {
	return "owner:" + owner.String()
}
