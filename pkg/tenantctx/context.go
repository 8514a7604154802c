// Package tenantctx carries the resolved tenant through request contexts.
package tenantctx

import "context"

type keyType string

const (
	companyIDKey keyType = "company_id"
	subdomainKey keyType = "subdomain"
)

func WithCompanyID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, companyIDKey, id)
}

func CompanyID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(companyIDKey).(int64)
	return id, ok
}

func WithSubdomain(ctx context.Context, subdomain string) context.Context {
	return context.WithValue(ctx, subdomainKey, subdomain)
}

func Subdomain(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subdomainKey).(string)
	return sub, ok
}
