package httpapi

import (
	"net/http"

	"chapkhane/internal/pricing"

	"github.com/gin-gonic/gin"
)

func (s *Server) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, s.shop.Catalog())
}

func (s *Server) reloadCatalog(c *gin.Context) {
	if err := s.shop.ReloadCatalog(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.shop.Catalog())
}

func (s *Server) quote(c *gin.Context) {
	var spec pricing.OrderSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	q, err := s.shop.Quote(c.Request.Context(), clientKey(c), spec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
