package repository

import "context"

// TokenKey names the single persistent slot holding the raw bearer token.
const TokenKey = "token"

// TokenStore is the one slot a caller's bearer token lives in.
// Clear must be idempotent: clearing an empty slot is not an error.
type TokenStore interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// SlotStore persists string values by slot name. Backends implement this and
// are narrowed to a single slot with Bind.
type SlotStore interface {
	Load(ctx context.Context, slot string) (string, bool, error)
	Save(ctx context.Context, slot, value string) error
	Delete(ctx context.Context, slot string) error
}

// SessionSlot namespaces the token slot for one console browser session.
func SessionSlot(sessionID string) string {
	return sessionID + ":" + TokenKey
}

type boundStore struct {
	slots SlotStore
	slot  string
}

// Bind returns a TokenStore backed by a single slot of s.
func Bind(s SlotStore, slot string) TokenStore {
	return &boundStore{slots: s, slot: slot}
}

func (b *boundStore) Get(ctx context.Context) (string, bool, error) {
	token, ok, err := b.slots.Load(ctx, b.slot)
	if err != nil || !ok {
		return "", false, err
	}
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// Set stores token byte for byte; an empty token clears the slot.
func (b *boundStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return b.Clear(ctx)
	}
	return b.slots.Save(ctx, b.slot, token)
}

func (b *boundStore) Clear(ctx context.Context) error {
	return b.slots.Delete(ctx, b.slot)
}
