// Package domain defines the aggregated dashboard payload.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	conversationdomain "github.com/swaylabs/sway/internal/conversation/domain"
)

// HomeUser is the slim user view embedded in the dashboard.
type HomeUser struct {
	ID    snowflake.ID `json:"id"`
	Name  string       `json:"name"`
	Email *string      `json:"email"`
}

type ActivityItem struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type NotificationItem struct {
	ID      snowflake.ID `json:"id"`
	Type    string       `json:"type"`
	Message string       `json:"message"`
	Read    bool         `json:"read"`
	Time    time.Time    `json:"time"`
}

// HomeData is everything the dashboard landing page needs in one call.
type HomeData struct {
	User           HomeUser                 `json:"user"`
	Stats          conversationdomain.Stats `json:"stats"`
	RecentActivity []ActivityItem           `json:"recentActivity"`
	Notifications  []NotificationItem       `json:"notifications"`
}

type Service interface {
	GetHome(ctx context.Context, companyID, userID snowflake.ID) (*HomeData, error)
}
