// Package domain contains the conversation read model backing the
// dashboard. Conversations are written by the messaging pipeline; this
// service only aggregates them.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ConversationStatus represents lifecycle states for a conversation.
type ConversationStatus string

const (
	// StatusActive means an agent (human or AI) is engaged.
	StatusActive ConversationStatus = "active"
	// StatusPending means the conversation awaits a human handover.
	StatusPending  ConversationStatus = "pending"
	StatusResolved ConversationStatus = "resolved"
)

// Conversation is one customer-service thread within a tenant.
type Conversation struct {
	ID         snowflake.ID       `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID       `gorm:"not null;index:ix_conversations_company_status,priority:1" json:"companyId"`
	UserID     *snowflake.ID      `gorm:"index" json:"userId,omitempty"`
	Status     ConversationStatus `gorm:"type:text;not null;default:pending;index:ix_conversations_company_status,priority:2" json:"status"`
	ResolvedAt *time.Time         `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Stats summarizes a tenant's conversations for the dashboard.
type Stats struct {
	Total    int64 `json:"totalConversations"`
	Active   int64 `json:"activeConversations"`
	Resolved int64 `json:"resolvedToday"`
	Pending  int64 `json:"pendingHandovers"`
}

// StatsQuery scopes the aggregation. UserID narrows to conversations
// assigned to one operator.
type StatsQuery struct {
	CompanyID snowflake.ID
	UserID    *snowflake.ID
}

type Service interface {
	Stats(ctx context.Context, q StatsQuery) (*Stats, error)
}

type Repository interface {
	Stats(ctx context.Context, q StatsQuery, startOfDay time.Time) (*Stats, error)
}
