package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/gethired/gethired/internal/domain/user"
	"github.com/gethired/gethired/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// New accounts start with a small free credit allowance.
const signupCreditGrant = 10

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (user.User, string, string, error)
	Login(ctx context.Context, in LoginInput) (user.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type Auth struct {
	users user.Repository
	jwt   jwt.Service

	// onSignup and onResetRequest run after the respective operation
	// succeeds; the bootstrap wires the emails here so this package stays
	// mailer-free.
	onSignup       func(ctx context.Context, u user.User)
	onResetRequest func(ctx context.Context, u user.User, token string)
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service, onSignup func(ctx context.Context, u user.User), onResetRequest func(ctx context.Context, u user.User, token string)) *Auth {
	return &Auth{users: users, jwt: jwtSvc, onSignup: onSignup, onResetRequest: onResetRequest}
}

func (u *Auth) Register(ctx context.Context, in RegisterInput) (user.User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < 8 {
		return user.User{}, "", "", ErrInvalidInput
	}

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return user.User{}, "", "", ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, "", "", ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", "", ErrInternal
	}

	usr := user.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := u.users.Create(ctx, usr); err != nil {
		return user.User{}, "", "", ErrInternal
	}
	if err := u.users.CreateProfile(ctx, user.Profile{
		ID:        uuid.New(),
		UserID:    usr.ID,
		AICredits: signupCreditGrant,
	}); err != nil {
		return user.User{}, "", "", ErrInternal
	}

	access, refresh, err := u.tokens(usr)
	if err != nil {
		return user.User{}, "", "", err
	}

	if u.onSignup != nil {
		u.onSignup(ctx, usr)
	}
	return usr, access, refresh, nil
}

func (u *Auth) Login(ctx context.Context, in LoginInput) (user.User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return user.User{}, "", "", ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, "", "", ErrInvalidCredentials
		}
		return user.User{}, "", "", ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)) != nil {
		return user.User{}, "", "", ErrInvalidCredentials
	}

	access, refresh, err := u.tokens(usr)
	if err != nil {
		return user.User{}, "", "", err
	}
	return usr, access, refresh, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	access, refresh, err := u.tokens(usr)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// RequestPasswordReset never reveals whether the address is registered:
// unknown emails are accepted and silently dropped.
func (u *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return ErrInternal
	}

	token, err := u.jwt.GenerateResetToken(usr.ID)
	if err != nil {
		return ErrInternal
	}
	if u.onResetRequest != nil {
		u.onResetRequest(ctx, usr, token)
	}
	return nil
}

func (u *Auth) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || len(newPassword) < 8 {
		return ErrInvalidInput
	}

	claims, err := u.jwt.ValidateToken(token)
	if err != nil {
		return ErrUnauthorized
	}
	if !u.jwt.IsResetToken(claims) {
		return ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}
	if err := u.users.UpdatePassword(ctx, claims.UserID, string(hash)); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUnauthorized
		}
		return ErrInternal
	}
	return nil
}

func (u *Auth) tokens(usr user.User) (string, string, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}
