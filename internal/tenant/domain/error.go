package domain

import "errors"

var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanyInactive  = errors.New("company inactive")
	ErrSubdomainTaken   = errors.New("subdomain already in use")
	ErrInvalidSubdomain = errors.New("invalid subdomain")
)
