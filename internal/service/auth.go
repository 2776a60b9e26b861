// Package service provides the signup/login orchestration and the task and
// transcript gateways, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/atinyakov/AIWorkspace/internal/password"
	"go.uber.org/zap"
)

// AccountRepository defines the persistence operations on employee accounts
// required by AuthService.
type AccountRepository interface {
	// ExistsByEmail reports whether an account with email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByEmail returns the account with email, or common.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// Create inserts a new account and returns it as stored.
	Create(ctx context.Context, acc *models.Account) (*models.Account, error)
	// UpdatePassword replaces the stored credential of the account with email.
	UpdatePassword(ctx context.Context, email, hash string) error
}

// IdentityRepository creates identities in the external auth service.
type IdentityRepository interface {
	// CreateIdentity registers email/password with metadata and returns the
	// identity id.
	CreateIdentity(ctx context.Context, email, password string, metadata map[string]any) (string, error)
}

// SignupInput carries a validated signup request.
type SignupInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department *string
}

// AuthService implements signup and login.
type AuthService struct {
	accounts   AccountRepository
	identities IdentityRepository
	passwords  *password.Manager
	log        *zap.Logger
	now        func() time.Time

	// strictMigration fails a login whose legacy credential could not be
	// replaced by its hash. When false the login succeeds and the failure
	// is logged.
	strictMigration bool
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithStrictMigration sets the credential migration failure policy.
func WithStrictMigration(strict bool) AuthOption {
	return func(s *AuthService) { s.strictMigration = strict }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) AuthOption {
	return func(s *AuthService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts AccountRepository, identities IdentityRepository, passwords *password.Manager, opts ...AuthOption) *AuthService {
	s := &AuthService{
		accounts:   accounts,
		identities: identities,
		passwords:  passwords,
		log:        zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates the external identity and then the local account.
//
// It returns common.ErrDuplicateAccount when the email is taken. If the
// identity cannot be created nothing is written locally. The plaintext
// password is never stored.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.Account, error) {
	if in.Role == "" {
		in.Role = models.DefaultRole
	}
	log := s.log.With(zap.String("email", in.Email))
	log.Info("signup attempt")

	exists, err := s.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateAccount
	}

	hash, err := s.passwords.Hash(in.Password)
	if errors.Is(err, password.ErrTooLong) {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, password.MaxLength)
	}
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	identityID, err := s.identities.CreateIdentity(ctx, in.Email, in.Password, map[string]any{
		"name": in.Name,
		"role": in.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	stored, err := s.accounts.Create(ctx, &models.Account{
		Name:           in.Name,
		Email:          in.Email,
		Password:       hash,
		Role:           in.Role,
		Department:     in.Department,
		SupabaseUserID: identityID,
		CreatedAt:      models.NewTimestamp(s.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	log.Info("account created", zap.String("identity_id", identityID))
	return stored, nil
}

// Login verifies email/password and returns the account without its
// credential.
//
// A legacy plaintext credential that matches is replaced by a bcrypt hash
// before Login returns. An unknown email yields common.ErrAccountNotFound and
// a wrong password common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*models.Account, error) {
	log := s.log.With(zap.String("email", email))
	log.Info("login attempt")

	acc, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	valid, migrated, err := s.passwords.VerifyAndMigrate(acc.Password, plain)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !valid {
		return nil, common.ErrInvalidCredentials
	}

	switch {
	case migrated == "" && !password.IsHashed(acc.Password):
		log.Warn("legacy credential too long to hash, left in place")
	case migrated != "":
		if err := s.accounts.UpdatePassword(ctx, email, migrated); err != nil {
			if s.strictMigration {
				return nil, fmt.Errorf("login: migrate credential: %w", err)
			}
			log.Warn("legacy credential not migrated", zap.Error(err))
		} else {
			log.Info("legacy credential migrated to hash")
		}
	}

	acc.Password = ""
	return acc, nil
}
