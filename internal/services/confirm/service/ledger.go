// Package service contains the confirmation ledger and workflow
package service

import (
	"context"
	"sync"
	"time"

	perr "raidcall/internal/platform/errors"
	"raidcall/internal/platform/logger"
	"raidcall/internal/services/confirm/domain"
)

// Ledger holds pending confirmations keyed by id
// All methods are safe for concurrent use
type Ledger struct {
	mu      sync.Mutex
	pending map[string]domain.Pending
}

// NewLedger constructs an empty ledger
func NewLedger() *Ledger {
	return &Ledger{pending: make(map[string]domain.Pending)}
}

// Put stores p; a colliding id is a logic error upstream
func (l *Ledger) Put(p domain.Pending) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[p.ID]; ok {
		return perr.Conflictf("confirmation id %s already pending", p.ID)
	}
	l.pending[p.ID] = p
	return nil
}

// Get returns the pending entry for id if present
func (l *Ledger) Get(id string) (domain.Pending, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pending[id]
	return p, ok
}

// Remove deletes id and reports whether it was present
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[id]; !ok {
		return false
	}
	delete(l.pending, id)
	return true
}

// Len reports the number of pending entries
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Sweep removes and returns every entry older than ttl as of now
// A second sweep with no newly expired entries returns nothing
func (l *Ledger) Sweep(now time.Time, ttl time.Duration) []domain.Pending {
	l.mu.Lock()
	defer l.mu.Unlock()

	var expired []domain.Pending
	for id, p := range l.pending {
		if now.Sub(p.CreatedAt) >= ttl {
			expired = append(expired, p)
			delete(l.pending, id)
		}
	}
	return expired
}

// Sweeper periodically expires stale confirmations and notifies best effort
type Sweeper struct {
	Ledger   *Ledger
	Notifier domain.Notifier
	TTL      time.Duration
	Every    time.Duration
}

// Run blocks until ctx is cancelled, sweeping on a ticker
func (s *Sweeper) Run(ctx context.Context) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	every := s.Every
	if every <= 0 {
		every = time.Minute
	}

	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			for _, p := range s.Ledger.Sweep(time.Now(), ttl) {
				if s.Notifier == nil {
					continue
				}
				if err := s.Notifier.Expire(ctx, p.MessageRef); err != nil {
					logger.C(ctx).Warn().Err(err).Str("confirmation", p.ID).Msg("expiry notice failed")
				}
			}
		}
	}
}
