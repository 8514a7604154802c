package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/config"
	tenantdomain "github.com/swaylabs/sway/internal/tenant/domain"
	"gorm.io/gorm"
)

// EnsureDefaultCompany seeds the demo tenant on startup so the bare
// platform domain is usable immediately.
func EnsureDefaultCompany(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company tenantdomain.Company
		err := tx.WithContext(ctx).
			Where("subdomain = ?", cfg.DefaultTenantSubdomain).
			First(&company).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		company = tenantdomain.Company{
			ID:        node.Generate(),
			Name:      cfg.DefaultTenantName,
			Subdomain: cfg.DefaultTenantSubdomain,
			Domain:    cfg.DefaultTenantDomain,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.WithContext(ctx).Create(&company).Error
	})
}
