package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"travelshare/internal/config"
)

// Kind identifies how a proof was issued.
type Kind string

const (
	KindToken   Kind = "token"
	KindSession Kind = "session"
)

// Proof is the credential handed to a client at login and presented on
// protected requests.
type Proof struct {
	Kind      Kind
	Value     string
	ExpiresAt time.Time // zero when the proof never expires
}

// Prover issues and verifies proofs for one proof kind.
type Prover interface {
	Kind() Kind
	// Issue creates a proof bound to userID.
	Issue(ctx context.Context, userID uuid.UUID) (*Proof, error)
	// Verify resolves a presented proof to its user. Rejected proofs yield an
	// error wrapping errors.ErrInvalidProof; any other error is an
	// infrastructure failure.
	Verify(ctx context.Context, value string) (uuid.UUID, error)
	// Revoke invalidates a proof before its natural expiry.
	Revoke(ctx context.Context, value string) error
}

// NewProver builds the prover selected by cfg.AuthMode.
func NewProver(cfg *config.Config, store SessionStoreInterface) (Prover, error) {
	switch cfg.AuthMode {
	case config.AuthModeToken:
		return NewJWTService(cfg.JWTSecret, cfg.JWTTTL, store), nil
	case config.AuthModeSession:
		return NewSessionProver(store, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.AuthMode)
	}
}
