package domain

import "context"

type Service interface {
	// Resolve maps a request host to its company. A host without a
	// subdomain resolves to the default tenant, creating it on first use.
	// An unknown subdomain returns ErrCompanyNotFound; an inactive
	// company returns ErrCompanyInactive.
	Resolve(ctx context.Context, host string) (*Company, error)
	Create(ctx context.Context, req CreateCompanyRequest) (*Company, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*Company, error)
}

type CreateCompanyRequest struct {
	Name      string
	Subdomain string
	Domain    string
}
