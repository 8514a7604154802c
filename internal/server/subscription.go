package server

import (
	"github.com/gin-gonic/gin"
)

// GetSubscription returns the caller's active subscription, if any.
func (s *Server) GetSubscription(c *gin.Context) {
	user := userFromContext(c)

	sub, err := s.subSvc.Current(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "Assinatura carregada", sub)
}
