package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "travelshare/internal/errors"
)

// Claims represents JWT claims. The subject is the user id and is the only
// application claim carried by the token.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret      []byte
	ttl         time.Duration
	revocations SessionStoreInterface
	now         func() time.Time
}

var _ Prover = (*JWTService)(nil)

// NewJWTService creates a new JWT service with the given secret. A zero ttl
// issues tokens without an expiry. revocations may be nil, in which case
// tokens cannot be revoked.
func NewJWTService(secret string, ttl time.Duration, revocations SessionStoreInterface) *JWTService {
	return &JWTService{
		secret:      []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		now:         time.Now,
	}
}

// Kind implements Prover.
func (s *JWTService) Kind() Kind { return KindToken }

// GenerateToken generates a signed token for the user.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        generateTokenID(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Issue implements Prover.
func (s *JWTService) Issue(ctx context.Context, userID uuid.UUID) (*Proof, error) {
	token, claims, err := s.GenerateToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	proof := &Proof{Kind: KindToken, Value: token}
	if claims.ExpiresAt != nil {
		proof.ExpiresAt = claims.ExpiresAt.Time
	}
	return proof, nil
}

// Verify implements Prover.
func (s *JWTService) Verify(ctx context.Context, value string) (uuid.UUID, error) {
	claims, err := s.ValidateToken(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidProof, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", apperrors.ErrInvalidProof)
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return uuid.Nil, fmt.Errorf("%w: token revoked", apperrors.ErrInvalidProof)
		}
	}
	return userID, nil
}

// Revoke implements Prover. The revocation lives until the token would have
// expired anyway.
func (s *JWTService) Revoke(ctx context.Context, value string) error {
	claims, err := s.ValidateToken(value)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidProof, err)
	}
	if s.revocations == nil || claims.ID == "" {
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}
	return s.revocations.RevokeToken(ctx, claims.ID, ttl)
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	return uuid.New().String()
}
