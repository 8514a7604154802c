package domain

import "context"

type Repository interface {
	Create(ctx context.Context, company *Company) error
	FindBySubdomain(ctx context.Context, subdomain string) (*Company, error)
}
