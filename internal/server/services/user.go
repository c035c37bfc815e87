// Package services contains server-side business logic. This file implements
// UserService, the single authentication decision point: it creates users,
// resolves a token-or-username identifier to an account, and mints tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkalinin/userkeeper/internal/common"
	"github.com/mkalinin/userkeeper/internal/dbx"
	"github.com/mkalinin/userkeeper/internal/server/auth"
	"github.com/mkalinin/userkeeper/internal/server/config"
	"github.com/mkalinin/userkeeper/internal/server/models"
	"github.com/mkalinin/userkeeper/internal/server/repositories/repomanager"
)

// UserService provides account and authentication operations:
//   - Register: create users (password hashed before it ever reaches a repo)
//   - Authenticate: resolve a token or username+password to an account
//   - IssueToken: mint a signed, time-limited token for an account
//   - ChangePassword / DeleteUser / ListUsers: account management
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user inside a transaction scope. A duplicate
// username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*models.User, error) {

	user, err := models.NewUser(username, password, email)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Authenticate resolves identifier to an account. The identifier is tried
// as a signed token first; a valid token authenticates by itself and the
// password is ignored. On any token failure the identifier is treated as a
// username and the password is verified against the stored hash. Unknown
// user and wrong password are indistinguishable to the caller: both return
// common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {

	repo := s.repomanager.Users(s.db)

	if userID, err := auth.UserIDFromToken(identifier, s.jwtSecret); err == nil {
		user, err := repo.GetByID(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
		// Token was valid but the account is gone; fall through to the
		// username path.
	}

	user, err := repo.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// IssueToken mints a signed token for the user with the configured TTL.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
}

// ChangePassword re-hashes the password and rewrites the user row inside a
// transaction scope.
func (s *UserService) ChangePassword(ctx context.Context, username, newPassword string) error {

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}

		user.PasswordHash = hash
		return repo.Update(ctx, user)
	})
}

// DeleteUser removes the account inside a transaction scope.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}

		return repo.Delete(ctx, user.ID)
	})
}

// ListUsers returns the projections of all accounts; password hashes never
// leave the store boundary.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserProjection, error) {
	all, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	result := make([]models.UserProjection, 0, len(all))
	for _, u := range all {
		result = append(result, u.Projection())
	}
	return result, nil
}
