package repository

import (
	"context"
	"errors"

	"github.com/swaylabs/sway/internal/tenant/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, company *domain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) FindBySubdomain(ctx context.Context, subdomain string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}
