package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/tokens"
)

// Authenticate resolves the caller behind an Authorization header.
//
// The checks run in a fixed order: bearer extraction, signature and expiry,
// claim shape, revocation, principal lookup. Every rejection is one of
// ErrMissingCredentials, ErrInvalidCredentials or ErrTokenRevoked; the exact
// reason is only logged.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*Principal, error) {
	l := logging.FromContext(ctx).With("svc", "auth.gate")

	raw, err := BearerToken(authorization)
	if err != nil {
		l.Warn("auth_rejected", "status", 401, "reason", "no bearer token")
		return nil, err
	}

	claims, err := s.Codec.Verify(raw)
	if err != nil {
		l.Warn("auth_rejected", "status", 401, "reason", "token verification failed", "error", err)
		return nil, ErrInvalidCredentials
	}

	if claims.Subject == "" || claims.ID == "" || claims.Type != tokens.KindAccess {
		l.Warn("auth_rejected", "status", 401, "reason", "unexpected claim shape",
			"has_sub", claims.Subject != "", "has_jti", claims.ID != "", "type", claims.Type)
		return nil, ErrInvalidCredentials
	}

	revoked, err := s.Repo.IsRevoked(ctx, claims.ID)
	if err != nil {
		l.Error("auth_error", "status", 500, "reason", "revocation lookup failed", "error", err)
		return nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		l.Warn("auth_rejected", "status", 401, "reason", "token revoked", "jti", claims.ID)
		return nil, ErrTokenRevoked
	}

	user, err := s.Repo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("auth_rejected", "status", 401, "reason", "subject not found")
			return nil, ErrInvalidCredentials
		}
		l.Error("auth_error", "status", 500, "reason", "principal lookup failed", "error", err)
		return nil, fmt.Errorf("principal lookup: %w", err)
	}

	return &Principal{User: user, Claims: claims, Token: raw}, nil
}
