package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/config"
	"gorm.io/gorm"
)

// CreateOrderRequest starts a checkout for the named plan.
type CreateOrderRequest struct {
	UserID        snowflake.ID
	Plan          string
	PaymentMethod string
	CompanyData   map[string]any
	CardData      *CardData
}

// CardData carries raw card input from the client. Only a sanitized
// summary is ever persisted.
type CardData struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// CreateOrderResult is returned to the client to continue payment.
type CreateOrderResult struct {
	Order      *Order
	PaymentURL string
}

// ConfirmPaymentRequest is the gateway webhook payload.
type ConfirmPaymentRequest struct {
	OrderID   snowflake.ID
	PaymentID string
	Status    string
}

type Service interface {
	// GetPlan returns the catalog entry for the named plan.
	GetPlan(ctx context.Context, name string) (config.Plan, error)

	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error)

	// ConfirmPayment settles a pending order. A paid status activates
	// or extends the buyer's subscription; anything else marks the
	// order failed. Confirming an already settled order returns
	// ErrOrderAlreadyProcessed and changes nothing.
	ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) error

	// GetOrder returns the order when it belongs to the user.
	GetOrder(ctx context.Context, userID, orderID snowflake.ID) (*Order, error)
}

type Repository interface {
	Insert(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id snowflake.ID) (*Order, error)
	// Update applies fields on the given transaction handle; a nil tx
	// uses the repository's own connection.
	Update(ctx context.Context, tx *gorm.DB, id snowflake.ID, fields map[string]any) error
}
