// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User represents a customer account scoped to a company.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID `gorm:"column:company_id;not null;index;uniqueIndex:ux_users_company_cpf_cnpj,priority:1;uniqueIndex:ux_users_company_email,priority:1" json:"companyId"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Email        *string      `gorm:"type:text;uniqueIndex:ux_users_company_email,priority:2" json:"email"`
	CpfCnpj      *string      `gorm:"column:cpf_cnpj;type:text;uniqueIndex:ux_users_company_cpf_cnpj,priority:2" json:"cpfCnpj"`
	PasswordHash *string      `gorm:"column:password_hash;type:text" json:"-"`
	Provider     string       `gorm:"type:text;not null;default:local" json:"provider"`
	ProviderID   *string      `gorm:"column:provider_id;type:text" json:"providerId,omitempty"`
	Avatar       string       `gorm:"type:text" json:"avatar,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// HasPassword reports whether the account can authenticate locally.
// Accounts created via social providers carry no password hash.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// PasswordReset is a single-use recovery token.
type PasswordReset struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index" json:"userId"`
	Token     string       `gorm:"type:text;not null;uniqueIndex:ux_password_resets_token" json:"-"`
	ExpiresAt time.Time    `gorm:"column:expires_at;not null" json:"expiresAt"`
	Used      bool         `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (PasswordReset) TableName() string { return "password_resets" }
