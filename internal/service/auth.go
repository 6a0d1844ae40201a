package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/events"
	"github.com/Skotchmaster/content_backend/internal/hash"
	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/models"
	"github.com/Skotchmaster/content_backend/internal/repo"
	"github.com/Skotchmaster/content_backend/internal/tokens"
)

const TokenTypeBearer = "bearer"

type AuthService struct {
	Repo   *repo.GormRepo
	Hasher *hash.Hasher
	Codec  *tokens.Codec
	Events events.Publisher

	dummyOnce   sync.Once
	dummyDigest string
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Principal is the authenticated caller together with the token it used.
type Principal struct {
	User   *models.User
	Claims *tokens.Claims
	Token  string
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", ErrValidation)
	}

	exists, err := s.Repo.UserExists(ctx, username, email)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot check existing users", "error", err)
		return nil, err
	}
	if exists {
		l.Warn("register_error", "status", 400, "reason", "user already exist")
		return nil, ErrDuplicateRegistration
	}

	digest, err := s.Hasher.Hash(password)
	if errors.Is(err, hash.ErrPasswordTooLong) {
		l.Warn("register_error", "status", 422, "reason", "password too long")
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: digest,
		IsActive:       true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			l.Warn("register_error", "status", 400, "reason", "lost uniqueness race", "error", err)
			return nil, ErrDuplicateRegistration
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	s.publish(ctx, events.TopicUsers, username, events.NewEvent(events.TypeUserRegistered, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}))

	l.Info("register_successful", "user_id", user.ID)
	return user, nil
}

// Login matches by username only and never reveals which factor failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_, _ = s.Hasher.Verify(password, s.dummy())
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	ok, err := s.Hasher.Verify(password, user.HashedPassword)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "stored digest unreadable", "error", err)
		return nil, err
	}
	if !ok {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.Codec.Issue(user.Username, tokens.KindAccess)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Logout decodes the caller's token again and denylists its id until the
// token's own expiry. Repeated calls succeed.
func (s *AuthService) Logout(ctx context.Context, p *Principal) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", p.User.ID)

	claims, err := s.Codec.Verify(p.Token)
	if err != nil {
		l.Warn("logout_failed", "status", 401, "reason", err.Error())
		return ErrInvalidCredentials
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		l.Warn("logout_failed", "status", 400, "reason", "token has no jti or exp")
		return ErrMalformedTokenPayload
	}

	kind := claims.Type
	if kind == "" {
		kind = tokens.KindAccess
	}
	if err := s.Repo.Revoke(ctx, claims.ID, p.User.ID, kind, claims.ExpiresAt.Time); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke token", "error", err)
		return err
	}

	l.Info("successful_logout", "jti", claims.ID)
	return nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		d, err := s.Hasher.Hash("dummy-password-for-timing")
		if err == nil {
			s.dummyDigest = d
		}
	})
	return s.dummyDigest
}

func (s *AuthService) publish(ctx context.Context, topic, key string, ev events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMissingCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingCredentials
	}
	return token, nil
}
