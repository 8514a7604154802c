package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) GetHome(c *gin.Context) {
	company := companyFromContext(c)
	user := userFromContext(c)

	data, err := s.dashboardSvc.GetHome(c.Request.Context(), company.ID, user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, "Dados do dashboard carregados com sucesso", data)
}
