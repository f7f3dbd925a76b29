package httpapi

import (
	"net/http"

	"chapkhane/internal/shop"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// listServices returns active offerings; ?all=true includes hidden ones.
func (s *Server) listServices(c *gin.Context) {
	offerings, err := s.shop.ListOfferings(c.Request.Context(), c.Query("all") != "true")
	if err != nil {
		s.fail(c, err)
		return
	}
	if offerings == nil {
		offerings = []shop.Offering{}
	}
	c.JSON(http.StatusOK, offerings)
}

func (s *Server) getService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	o, err := s.shop.GetOffering(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) createService(c *gin.Context) {
	var o shop.Offering
	if err := c.ShouldBindJSON(&o); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	o.ID = uuid.Nil

	if err := s.shop.SaveOffering(c.Request.Context(), &o); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (s *Server) updateService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var o shop.Offering
	if err := c.ShouldBindJSON(&o); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	o.ID = id

	if err := s.shop.SaveOffering(c.Request.Context(), &o); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) deleteService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.shop.DeleteOffering(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
