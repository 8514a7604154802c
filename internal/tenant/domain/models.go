// Package domain contains core types for the tenant service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company represents a tenant resolved from the request subdomain.
type Company struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Subdomain string       `gorm:"type:text;not null;uniqueIndex:ux_companies_subdomain" json:"subdomain"`
	Domain    string       `gorm:"type:text" json:"domain"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
