package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roperoapp/ropero-backend/internal/users"
	"github.com/roperoapp/ropero-backend/pkg/auth"
	"github.com/roperoapp/ropero-backend/pkg/config"
	"github.com/roperoapp/ropero-backend/pkg/db"
	"github.com/roperoapp/ropero-backend/pkg/db/models"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
	"github.com/roperoapp/ropero-backend/pkg/security"
)

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Location *string
	Bio      *string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Result bundles the signed token with the authenticated user.
type Result struct {
	Token string
	User  *models.User
}

// Service defines the authentication surface.
type Service interface {
	Register(ctx context.Context, input RegisterInput, now time.Time) (*Result, error)
	Login(ctx context.Context, input LoginInput, now time.Time) (*Result, error)
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Users    userRepository
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

type service struct {
	users    userRepository
	jwt      config.JWTConfig
	password config.PasswordConfig
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repo required")
	}
	if params.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		users:    params.Users,
		jwt:      params.JWT,
		password: params.Password,
	}, nil
}

// Register creates the account and signs the first token.
func (s *service) Register(ctx context.Context, input RegisterInput, now time.Time) (*Result, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Location:     input.Location,
		Bio:          input.Bio,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert user")
	}

	return s.issueToken(user, now)
}

// Login verifies credentials and signs a fresh token.
func (s *service) Login(ctx context.Context, input LoginInput, now time.Time) (*Result, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}

	return s.issueToken(user, now)
}

func (s *service) issueToken(user *models.User, now time.Time) (*Result, error) {
	token, err := auth.MintAccessToken(s.jwt, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &Result{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
