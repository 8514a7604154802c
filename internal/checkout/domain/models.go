// Package domain contains persistence models for checkout orders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// OrderStatus represents lifecycle states for an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order records a checkout attempt for a plan.
type Order struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID      `gorm:"not null;index" json:"userId"`
	Plan           string            `gorm:"type:text;not null" json:"plan"`
	Amount         float64           `gorm:"not null" json:"amount"`
	Currency       string            `gorm:"type:text;not null;default:BRL" json:"currency"`
	PaymentMethod  string            `gorm:"type:text;not null" json:"paymentMethod"`
	PaymentID      *string           `gorm:"type:text" json:"paymentId,omitempty"`
	Status         OrderStatus       `gorm:"type:text;not null;default:pending" json:"status"`
	SubscriptionID *snowflake.ID     `gorm:"index" json:"subscriptionId,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
