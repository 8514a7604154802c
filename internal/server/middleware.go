package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/swaylabs/sway/internal/auth/domain"
	obscontext "github.com/swaylabs/sway/internal/observability/context"
	tenantdomain "github.com/swaylabs/sway/internal/tenant/domain"
	"github.com/swaylabs/sway/pkg/tenantctx"
	"go.uber.org/zap"
)

const (
	contextUserIDKey  = "user_id"
	contextUserKey    = "user"
	contextCompanyKey = "company"
)

// TenantContext resolves the request host to a company and stores it on
// the gin and request contexts. API routes (except company signup) need
// a resolvable, active tenant; everything else falls through so health
// and metrics stay reachable.
func (s *Server) TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		company, err := s.tenantSvc.Resolve(c.Request.Context(), c.Request.Host)
		if err != nil {
			if !s.tenantRequired(c.Request.URL.Path) {
				c.Next()
				return
			}
			switch {
			case errors.Is(err, tenantdomain.ErrCompanyNotFound):
				AbortWithError(c, tenantdomain.ErrCompanyNotFound)
			case errors.Is(err, tenantdomain.ErrCompanyInactive):
				AbortWithError(c, tenantdomain.ErrCompanyInactive)
			default:
				// Storage trouble must not take the whole site down.
				s.log.Warn("tenant resolution failed", zap.Error(err))
				c.Next()
			}
			return
		}

		c.Set(contextCompanyKey, company)
		ctx := tenantctx.WithCompanyID(c.Request.Context(), int64(company.ID))
		ctx = tenantctx.WithSubdomain(ctx, company.Subdomain)
		ctx = obscontext.WithTenantID(ctx, company.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) tenantRequired(path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return false
	}
	return path != "/api/companies"
}

// RequireTenant gates handlers that cannot run without a resolved
// company on the context.
func (s *Server) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(contextCompanyKey); !ok {
			AbortWithError(c, validationError("Empresa não identificada"))
			return
		}
		c.Next()
	}
}

// AuthRequired validates the bearer token and loads the user, rejecting
// tokens whose user belongs to another tenant.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.tokens.Validate(strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		userID, err := snowflake.ParseString(claims.UserID)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		// The token is valid but its user is gone: not-found, not
		// unauthorized, matching what /me reports for unknown users.
		user, err := s.authSvc.GetUser(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if company := companyFromContext(c); company != nil && user.CompanyID != company.ID {
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Set(contextUserIDKey, user.ID)
		c.Set(contextUserKey, user)
		c.Request = c.Request.WithContext(
			obscontext.WithUserID(c.Request.Context(), user.ID.String()))
		c.Next()
	}
}

// LoginRateLimit throttles credential endpoints per tenant and IP.
func (s *Server) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.loginLimiter == nil {
			c.Next()
			return
		}

		var companyID snowflake.ID
		if company := companyFromContext(c); company != nil {
			companyID = company.ID
		}

		allowed, retryAfter := s.loginLimiter.Allow(c.Request.Context(), companyID, c.ClientIP())
		if !allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath(), "login")
			}
			if retryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response{
				Success: false,
				Message: "Muitas tentativas, tente novamente em instantes",
			})
			return
		}
		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), c.FullPath())
		}
		c.Next()
	}
}

func companyFromContext(c *gin.Context) *tenantdomain.Company {
	v, ok := c.Get(contextCompanyKey)
	if !ok {
		return nil
	}
	company, _ := v.(*tenantdomain.Company)
	return company
}

func userFromContext(c *gin.Context) *authdomain.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*authdomain.User)
	return user
}
