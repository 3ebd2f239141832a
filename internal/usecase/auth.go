package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/oykulab/masal-api/internal/auth"
	"github.com/oykulab/masal-api/internal/model"
	"github.com/oykulab/masal-api/internal/repository"
	"github.com/oykulab/masal-api/internal/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*AuthenticatedUser, error)
	Login(ctx context.Context, params LoginParams) (*AuthenticatedUser, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// AuthenticatedUser bundles a user with a freshly issued session token.
type AuthenticatedUser struct {
	User  *model.User
	Token string
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(userRepo repository.UserRepository, jwtAuth auth.JWTAuthenticator) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*AuthenticatedUser, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         strings.TrimSpace(params.Name),
		Email:        normalizeEmail(params.Email),
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	token, err := u.jwtAuth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &AuthenticatedUser{User: user, Token: token}, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*AuthenticatedUser, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := u.jwtAuth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &AuthenticatedUser{User: user, Token: token}, nil
}

// Email uniqueness is case-insensitive; everything is stored and looked up
// lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
