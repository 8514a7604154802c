package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/swaylabs/sway/internal/tenant/domain"
)

type CreateCompanyRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	Domain    string `json:"domain"`
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, validationError("Nome da empresa é obrigatório"))
		return
	}

	company, err := s.tenantSvc.Create(c.Request.Context(), tenantdomain.CreateCompanyRequest{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		Domain:    req.Domain,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondCreated(c, "Empresa criada com sucesso", company)
}
