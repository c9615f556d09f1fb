package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/repository"
)

// Guard derives the caller's session from its token slot.
type Guard struct {
	store      repository.TokenStore
	dispatcher events.Dispatcher
}

// NewGuard builds a guard over store. dispatcher may be nil.
func NewGuard(store repository.TokenStore, dispatcher events.Dispatcher) *Guard {
	return &Guard{store: store, dispatcher: dispatcher}
}

// Evaluate computes the session as of now. Malformed and expired tokens are
// cleared from the store before returning Unauthenticated. The error is only
// non-nil when the store itself fails.
func (g *Guard) Evaluate(ctx context.Context, now time.Time) (domain.Session, error) {
	_, session, err := g.Resolve(ctx, now)
	return session, err
}

// Resolve is Evaluate that also returns the raw token when authenticated.
func (g *Guard) Resolve(ctx context.Context, now time.Time) (string, domain.Session, error) {
	raw, ok, err := g.store.Get(ctx)
	if err != nil {
		return "", domain.Unauthenticated(), fmt.Errorf("read token: %w", err)
	}
	if !ok {
		return "", domain.Unauthenticated(), nil
	}

	claims, valid := DecodeClaims(raw)
	if !valid {
		return "", domain.Unauthenticated(), g.evict(ctx, events.ReasonMalformed)
	}
	if Expired(claims, now) {
		return "", domain.Unauthenticated(), g.evict(ctx, events.ReasonExpired)
	}
	return raw, domain.Authenticated(claims), nil
}

func (g *Guard) evict(ctx context.Context, reason string) error {
	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s token: %w", reason, err)
	}
	events.Publish(ctx, g.dispatcher, events.Event{
		Type:      events.EventSessionEvicted,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	return nil
}
