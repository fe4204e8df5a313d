// Package services contains the server-side business logic. This file
// implements UserService: registration, credential login, the session-token
// lifecycle (issue, logout, logout-all), bearer authentication, and the
// cascading self-deletion of an account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskkeeper/internal/common"
	"taskkeeper/internal/dbx"
	"taskkeeper/internal/server/auth"
	"taskkeeper/internal/server/config"
	"taskkeeper/internal/server/models"
	"taskkeeper/internal/server/repositories/repomanager"
)

// RegisterParams carries the attributes a new account is created from.
// Age is optional and defaults to zero.
type RegisterParams struct {
	Name     string
	Age      int64
	Email    string
	Password string
}

// UserService provides account and session operations:
//   - Register / Login: create accounts, verify credentials, mint session tokens
//   - Authenticate: resolve a bearer token to an acting user
//   - Logout / LogoutAll: revoke one or all session tokens
//   - UpdateSelf / DeleteSelf: profile mutation and cascading removal
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

// Register validates the new account's attributes, stores the user with a
// hashed password, and immediately issues a first session token.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, string, error) {
	name, err := validateName(p.Name)
	if err != nil {
		return nil, "", err
	}
	if err := validateAge(p.Age); err != nil {
		return nil, "", err
	}
	email := normalizeEmail(p.Email)
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validatePassword(p.Password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{Name: name, Age: p.Age, Email: email, PasswordHash: hash}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, "", fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.issueToken(ctx, u.ID, s.db)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// dummyPasswordHash is what the unknown-email path verifies against, so both
// failed-login causes cost one bcrypt comparison.
var dummyPasswordHash = func() string {
	h, _ := auth.HashPassword("correct-horse-battery-staple")
	return h
}()

// Login verifies the email/password pair and issues a fresh session token.
// An unknown email and a wrong password are indistinguishable to the caller,
// in response and in timing.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(password, dummyPasswordHash)
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.issueToken(ctx, user.ID, s.db)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a raw bearer token to the acting user. The token must
// carry a valid signature AND still be present in the user's session set;
// every failure mode collapses into the same ErrorUnauthorized so callers
// cannot probe which accounts or sessions exist.
func (s *UserService) Authenticate(ctx context.Context, rawToken string) (*models.User, string, error) {
	userID, err := auth.GetUserIDFromToken(rawToken, s.jwtSecret)
	if err != nil {
		return nil, "", common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByIDWithToken(ctx, userID, rawToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	return user, rawToken, nil
}

// Logout removes one token from the user's session set. Revoking a token that
// is already gone is a no-op.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	if err := s.repomanager.Sessions(s.db).Remove(ctx, userID, token); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

// LogoutAll clears the user's entire session set.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repomanager.Sessions(s.db).RemoveAll(ctx, userID); err != nil {
		return fmt.Errorf("error revoking sessions: %w", err)
	}
	return nil
}

// UpdateSelf applies a partial profile update. The field set is validated
// all-or-nothing against {name, age, email, password} before any value is
// touched; a password change recomputes the stored hash.
func (s *UserService) UpdateSelf(ctx context.Context, user *models.User, fields map[string]any) (*models.User, error) {
	if err := checkAllowedFields(fields, "name", "age", "email", "password"); err != nil {
		return nil, err
	}

	updated := *user

	if _, ok := fields["name"]; ok {
		raw, err := stringField(fields, "name")
		if err != nil {
			return nil, err
		}
		name, err := validateName(raw)
		if err != nil {
			return nil, err
		}
		updated.Name = name
	}

	if _, ok := fields["age"]; ok {
		age, err := intField(fields, "age")
		if err != nil {
			return nil, err
		}
		if err := validateAge(age); err != nil {
			return nil, err
		}
		updated.Age = age
	}

	if _, ok := fields["email"]; ok {
		raw, err := stringField(fields, "email")
		if err != nil {
			return nil, err
		}
		email := normalizeEmail(raw)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		updated.Email = email
	}

	if _, ok := fields["password"]; ok {
		raw, err := stringField(fields, "password")
		if err != nil {
			return nil, err
		}
		if err := validatePassword(raw); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(raw)
		if err != nil {
			return nil, common.ErrorInternal
		}
		updated.PasswordHash = hash
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return u, nil
}

// DeleteSelf removes the user and everything the user owns. Owned tasks are
// deleted before the user record inside one transaction, so a failure at any
// step leaves the account and its tasks fully intact.
func (s *UserService) DeleteSelf(ctx context.Context, user *models.User) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tasks(tx).DeleteByOwner(ctx, user.ID); err != nil {
			return fmt.Errorf("error deleting tasks: %w", err)
		}
		if err := s.repomanager.Sessions(tx).RemoveAll(ctx, user.ID); err != nil {
			return fmt.Errorf("error revoking sessions: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}

// issueToken mints a signed token and persists it into the session set.
// Issuance only counts once the row is durably stored.
func (s *UserService) issueToken(ctx context.Context, userID string, db dbx.DBTX) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := s.repomanager.Sessions(db).Add(ctx, userID, token); err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
