package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindByCpfCnpj(ctx context.Context, companyID snowflake.ID, cpfCnpj string) (*User, error)
	FindByEmail(ctx context.Context, companyID snowflake.ID, email string) (*User, error)
	FindByProvider(ctx context.Context, companyID snowflake.ID, provider, providerID string) (*User, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id snowflake.ID, fields map[string]any) error
}

// PasswordResetRepository persists recovery tokens. Mutating methods
// accept a transaction handle so the service can group them.
type PasswordResetRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reset *PasswordReset) error
	InvalidateUnused(ctx context.Context, tx *gorm.DB, userID snowflake.ID) error
	FindByToken(ctx context.Context, token string) (*PasswordReset, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, id snowflake.ID) error
}
