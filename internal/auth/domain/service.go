package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	SocialLogin(ctx context.Context, req SocialLoginRequest) (*AuthResult, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	UpdateProfile(ctx context.Context, id snowflake.ID, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, id snowflake.ID, current, next string) error
	// ForgotPassword never discloses whether the account exists.
	ForgotPassword(ctx context.Context, companyID snowflake.ID, cpfCnpj string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type RegisterRequest struct {
	CompanyID snowflake.ID
	Name      string
	Email     string
	CpfCnpj   string
	Password  string
}

type LoginRequest struct {
	CompanyID snowflake.ID
	CpfCnpj   string
	Password  string
}

type SocialLoginRequest struct {
	CompanyID  snowflake.ID
	Provider   string
	ProviderID string
	Name       string
	Email      string
	Avatar     string
}

type UpdateProfileRequest struct {
	Name  string
	Email string
}

type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
