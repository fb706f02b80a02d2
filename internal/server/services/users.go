// Package services contains server-side business logic. UserService handles
// registration and login; TaskService enforces task ownership.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
)

const (
	maxNameLength = 100
	// bcrypt ignores everything past 72 bytes; reject rather than truncate.
	maxPasswordBytes = 72
)

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type UserService struct {
	users  users.Repository
	hasher auth.PasswordHasher
	tokens *auth.TokenService
	logger logging.Logger

	// dummyHash is verified against when the email is unknown, so both
	// login failure paths cost one hash verification.
	dummyHash func() (string, error)
}

func NewUserService(repo users.Repository, hasher auth.PasswordHasher, tokens *auth.TokenService, logger logging.Logger) *UserService {
	return &UserService{
		users:  repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("module", "users"),
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(string(common.GenerateRandByteArray(16)))
		}),
	}
}

// Register validates the input, hashes the password and stores the user.
// Email uniqueness is left to the store, which reports ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	u, err := s.users.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "user lookup failed", "error", err)
			return nil, common.ErrorInternal
		}
		if dummy, err := s.dummyHash(); err == nil {
			s.hasher.Verify(password, dummy)
		}
		return nil, common.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Profile returns the user behind a verified token.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	return u, nil
}

func validateRegistration(name, email, password string) error {
	if name == "" {
		return common.NewValidationError("name", "is required")
	}
	if len([]rune(name)) > maxNameLength {
		return common.NewValidationError("name", "is too long")
	}
	if email == "" {
		return common.NewValidationError("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.NewValidationError("email", "is not a valid address")
	}
	if password == "" {
		return common.NewValidationError("password", "is required")
	}
	if len(password) > maxPasswordBytes {
		return common.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
