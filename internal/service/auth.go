package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"shopfront/internal/events"
	"shopfront/internal/hash"
	"shopfront/internal/logging"
	"shopfront/internal/models"
	"shopfront/internal/repo"
	"shopfront/internal/tokens"
	"shopfront/internal/transport"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	minPasswordLen = 6
)

type AuthService struct {
	Repo      *repo.GormRepo
	Producer  *events.Producer
	JWTSecret []byte
}

// Session is a freshly issued bearer token plus what the HTTP layer
// needs to build the cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    uint
	Role      string
}

func (s *Session) IsAdmin() bool { return s.Role == RoleAdmin }

func validRole(role string) bool {
	return role == "" || role == RoleUser || role == RoleAdmin
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: valid email is required", ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if !validRole(req.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("hash failed", "error", err)
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         role,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("register rejected", "reason", "duplicate user", "username", req.Username)
			return nil, fmt.Errorf("%w: username or email is taken", ErrUserExists)
		}
		l.Error("register failed", "error", err)
		return nil, err
	}

	s.publish(ctx, user, "user_registered")

	return s.issueSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login lookup failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	s.publish(ctx, user, "user_logged_in")

	return s.issueSession(ctx, user)
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	exp := time.Now().Add(tokens.SessionTTL)
	token, err := tokens.Sign(user.ID, user.Role, exp, s.JWTSecret)
	if err != nil {
		logging.FromContext(ctx).Error("token sign failed", "error", err)
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: exp,
		UserID:    user.ID,
		Role:      user.Role,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, user *models.User, eventType string) {
	event := map[string]interface{}{
		"type":     eventType,
		"user_id":  user.ID,
		"username": user.Username,
	}
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "event", eventType, "error", err)
	}
}
