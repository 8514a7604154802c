package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailTaken         = errors.New("email already in use")
	ErrWrongPassword      = errors.New("current password does not match")

	ErrInvalidCpfCnpj   = errors.New("invalid cpf or cnpj")
	ErrPasswordTooShort = errors.New("password too short")

	ErrResetTokenInvalid = errors.New("reset token invalid")
	ErrResetTokenUsed    = errors.New("reset token already used")
	ErrResetTokenExpired = errors.New("reset token expired")
)

// SocialAccountError signals a password login against a social-only
// account. The provider name is surfaced to the caller.
type SocialAccountError struct {
	Provider string
}

func (e *SocialAccountError) Error() string {
	return fmt.Sprintf("account uses %s login", e.Provider)
}
