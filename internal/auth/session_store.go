package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	sessionKeyPrefix      = "session:"
	revokedTokenKeyPrefix = "revoked:token:"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// KV is the subset of the Redis client the session store needs.
type KV interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}

// SessionStoreInterface defines the interface for session and token revocation storage.
type SessionStoreInterface interface {
	CreateSession(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (uuid.UUID, error)
	DeleteSession(ctx context.Context, sessionID string) error
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionStore keeps server-side sessions and revoked token ids in Redis.
type SessionStore struct {
	kv KV
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

type sessionData struct {
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionStore creates a new session store.
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// CreateSession stores a session bound to userID with TTL.
func (s *SessionStore) CreateSession(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	payload, err := json.Marshal(sessionData{UserID: userID, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}
	return s.kv.Put(ctx, sessionKeyPrefix+sessionID, payload, ttl)
}

// GetSession resolves a session id to its user.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (uuid.UUID, error) {
	data, err := s.kv.Fetch(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return uuid.Nil, err
	}
	if data == nil {
		return uuid.Nil, ErrSessionNotFound
	}

	var sd sessionData
	if err := json.Unmarshal(data, &sd); err != nil {
		return uuid.Nil, fmt.Errorf("unmarshal session data: %w", err)
	}
	if sd.UserID == uuid.Nil {
		return uuid.Nil, ErrSessionNotFound
	}
	return sd.UserID, nil
}

// DeleteSession removes a session.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.kv.Remove(ctx, sessionKeyPrefix+sessionID)
}

// RevokeToken marks a token id as revoked. A zero ttl keeps the mark forever.
func (s *SessionStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	// Store a simple marker
	return s.kv.Put(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsTokenRevoked checks if a token id has been revoked.
func (s *SessionStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.kv.Fetch(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}
