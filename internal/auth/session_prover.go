package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "travelshare/internal/errors"
)

// SessionProver issues opaque session ids backed by the session store.
type SessionProver struct {
	store SessionStoreInterface
	ttl   time.Duration
	now   func() time.Time
}

var _ Prover = (*SessionProver)(nil)

// NewSessionProver creates a prover whose sessions live for ttl.
func NewSessionProver(store SessionStoreInterface, ttl time.Duration) *SessionProver {
	return &SessionProver{store: store, ttl: ttl, now: time.Now}
}

// Kind implements Prover.
func (p *SessionProver) Kind() Kind { return KindSession }

// Issue implements Prover.
func (p *SessionProver) Issue(ctx context.Context, userID uuid.UUID) (*Proof, error) {
	sessionID := generateTokenID()
	if err := p.store.CreateSession(ctx, sessionID, userID, p.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &Proof{
		Kind:      KindSession,
		Value:     sessionID,
		ExpiresAt: p.now().Add(p.ttl),
	}, nil
}

// Verify implements Prover.
func (p *SessionProver) Verify(ctx context.Context, value string) (uuid.UUID, error) {
	if _, err := uuid.Parse(value); err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed session id", apperrors.ErrInvalidProof)
	}
	userID, err := p.store.GetSession(ctx, value)
	if errors.Is(err, ErrSessionNotFound) {
		return uuid.Nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidProof, err)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	return userID, nil
}

// Revoke implements Prover.
func (p *SessionProver) Revoke(ctx context.Context, value string) error {
	return p.store.DeleteSession(ctx, value)
}
