package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/swaylabs/sway/internal/auth/domain"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	CpfCnpj  string `json:"cpfCnpj"`
	Password string `json:"password"`
}

type LoginRequest struct {
	CpfCnpj  string `json:"cpfCnpj"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ForgotPasswordRequest struct {
	CpfCnpj string `json:"cpfCnpj"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type authPayload struct {
	User      *authdomain.User `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.CpfCnpj) == "" || req.Password == "" {
		AbortWithError(c, validationError("Nome, CPF/CNPJ e senha são obrigatórios"))
		return
	}

	company := companyFromContext(c)
	result, err := s.authSvc.Register(c.Request.Context(), authdomain.RegisterRequest{
		CompanyID: company.ID,
		Name:      req.Name,
		Email:     req.Email,
		CpfCnpj:   req.CpfCnpj,
		Password:  req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordRegistration(c.Request.Context(), "local")
	}

	respondCreated(c, "Conta criada com sucesso", authPayload{
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company := companyFromContext(c)
	result, err := s.authSvc.Login(c.Request.Context(), authdomain.LoginRequest{
		CompanyID: company.ID,
		CpfCnpj:   req.CpfCnpj,
		Password:  req.Password,
	})
	if err != nil {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordLogin(c.Request.Context(), "failure")
		}
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordLogin(c.Request.Context(), "success")
	}

	respondOK(c, "Login realizado com sucesso", authPayload{
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

func (s *Server) Me(c *gin.Context) {
	respondOK(c, "Usuário carregado", gin.H{"user": userFromContext(c)})
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user := userFromContext(c)
	updated, err := s.authSvc.UpdateProfile(c.Request.Context(), user.ID, authdomain.UpdateProfileRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, "Perfil atualizado com sucesso", gin.H{"user": updated})
}

func (s *Server) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		AbortWithError(c, validationError("Senha atual e nova senha são obrigatórias"))
		return
	}

	user := userFromContext(c)
	if err := s.authSvc.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		var socialErr *authdomain.SocialAccountError
		if errors.As(err, &socialErr) {
			AbortWithError(c, validationError(fmt.Sprintf("Esta conta usa login via %s e não possui senha", socialErr.Provider)))
			return
		}
		AbortWithError(c, err)
		return
	}

	respondOK(c, "Senha alterada com sucesso", nil)
}

func (s *Server) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company := companyFromContext(c)
	if err := s.authSvc.ForgotPassword(c.Request.Context(), company.ID, req.CpfCnpj); err != nil {
		AbortWithError(c, err)
		return
	}

	// Always the same answer so documents cannot be probed.
	respondOK(c, "Se o CPF/CNPJ estiver cadastrado, enviaremos instruções de redefinição", nil)
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Token) == "" || req.Password == "" {
		AbortWithError(c, validationError("Token e nova senha são obrigatórios"))
		return
	}

	if err := s.authSvc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, "Senha redefinida com sucesso", nil)
}

// OAuthAuthorize starts the simulated social login and immediately
// redirects to the provider callback.
func (s *Server) OAuthAuthorize(c *gin.Context) {
	provider := c.Param("provider")
	if !s.oauthSim.Supported(provider) {
		AbortWithError(c, ErrNotFound)
		return
	}

	callback := fmt.Sprintf("%s://%s/api/auth/%s/callback", requestScheme(c), c.Request.Host, strings.ToLower(provider))
	redirect, err := s.oauthSim.AuthorizeURL(provider, callback)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}

// OAuthCallback exchanges the simulated code, upserts the social user
// inside the tenant and hands the token back to the frontend.
func (s *Server) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	code := c.Query("code")

	profile, err := s.oauthSim.Exchange(provider, code)
	if err != nil {
		AbortWithError(c, validationError("Código de autorização inválido"))
		return
	}

	company := companyFromContext(c)
	result, err := s.authSvc.SocialLogin(c.Request.Context(), authdomain.SocialLoginRequest{
		CompanyID:  company.ID,
		Provider:   profile.Provider,
		ProviderID: profile.ProviderID,
		Name:       profile.Name,
		Email:      profile.Email,
		Avatar:     profile.Avatar,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordRegistration(c.Request.Context(), profile.Provider)
	}

	target := fmt.Sprintf("%s/auth/callback?token=%s", s.cfg.FrontendURL, url.QueryEscape(result.Token))
	c.Redirect(http.StatusTemporaryRedirect, target)
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}
