package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/swaylabs/sway/internal/auth/domain"
	checkoutdomain "github.com/swaylabs/sway/internal/checkout/domain"
	subscriptiondomain "github.com/swaylabs/sway/internal/subscription/domain"
	tenantdomain "github.com/swaylabs/sway/internal/tenant/domain"
	"gorm.io/gorm"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, response{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, response{Success: true, Message: message, Data: data})
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// ValidationErrors carries a client-facing message for a 400.
type ValidationErrors struct {
	Message string
}

func (v *ValidationErrors) Error() string {
	return v.Message
}

func validationError(message string) error {
	return &ValidationErrors{Message: message}
}

func invalidRequestError() error {
	return validationError("Dados da requisição inválidos")
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, response{Success: false, Message: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Message
	}

	var socialErr *authdomain.SocialAccountError
	if errors.As(err, &socialErr) {
		return http.StatusUnauthorized, fmt.Sprintf("Esta conta usa login via %s", socialErr.Provider)
	}

	switch {
	case errors.Is(err, authdomain.ErrInvalidCpfCnpj):
		return http.StatusBadRequest, "CPF/CNPJ inválido"
	case errors.Is(err, authdomain.ErrPasswordTooShort):
		return http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres"
	case errors.Is(err, authdomain.ErrResetTokenInvalid):
		return http.StatusBadRequest, "Token de redefinição inválido"
	case errors.Is(err, authdomain.ErrResetTokenUsed):
		return http.StatusBadRequest, "Token de redefinição já utilizado"
	case errors.Is(err, authdomain.ErrResetTokenExpired):
		return http.StatusBadRequest, "Token de redefinição expirado"
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, tenantdomain.ErrInvalidSubdomain):
		return http.StatusBadRequest, "Dados da requisição inválidos"
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrWrongPassword):
		return http.StatusUnauthorized, "Credenciais inválidas"
	case errors.Is(err, ErrForbidden),
		errors.Is(err, tenantdomain.ErrCompanyInactive):
		return http.StatusForbidden, "Acesso negado"
	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, "CPF/CNPJ já cadastrado"
	case errors.Is(err, authdomain.ErrEmailTaken):
		return http.StatusConflict, "E-mail já cadastrado"
	case errors.Is(err, tenantdomain.ErrSubdomainTaken):
		return http.StatusConflict, "Subdomínio já está em uso"
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, tenantdomain.ErrCompanyNotFound),
		errors.Is(err, checkoutdomain.ErrPlanNotFound),
		errors.Is(err, checkoutdomain.ErrOrderNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Recurso não encontrado"
	default:
		return http.StatusInternalServerError, "Erro interno do servidor"
	}
}

// classifyErrorForLog feeds the request logger with a coarse error
// family and the mapped status code.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, _ := mapError(err)
	switch {
	case status == http.StatusBadRequest:
		return "validation", "400"
	case status == http.StatusUnauthorized:
		return "auth", "401"
	case status == http.StatusForbidden:
		return "forbidden", "403"
	case status == http.StatusNotFound:
		return "not_found", "404"
	case status == http.StatusConflict:
		return "conflict", "409"
	default:
		return "internal", "500"
	}
}
