package httpapi

import (
	"net/http"

	"chapkhane/internal/shop"

	"github.com/gin-gonic/gin"
)

func (s *Server) submitMessage(c *gin.Context) {
	var req shop.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	req.ClientKey = clientKey(c)

	msg, err := s.shop.SubmitMessage(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (s *Server) listMessages(c *gin.Context) {
	messages, err := s.shop.ListMessages(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		s.fail(c, err)
		return
	}
	if messages == nil {
		messages = []shop.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) getMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	msg, err := s.shop.GetMessage(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (s *Server) markMessageRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.shop.MarkMessageRead(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.shop.DeleteMessage(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
