package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"chapkhane/internal/shop"
	"chapkhane/internal/storage"

	"github.com/gin-gonic/gin"
)

func (s *Server) createOrder(c *gin.Context) {
	var req shop.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	req.Source = shop.SourceWeb
	req.ClientKey = clientKey(c)

	order, err := s.shop.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) listOrders(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}
	orders, err := s.shop.ListOrders(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	if orders == nil {
		orders = []shop.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func orderFilter(c *gin.Context) (shop.OrderFilter, bool) {
	filter := shop.OrderFilter{Status: shop.OrderStatus(c.Query("status"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return filter, false
		}
		filter.Limit = limit
	}
	return filter, true
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := s.shop.GetOrder(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type statusRequest struct {
	Status shop.OrderStatus `json:"status"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	order, err := s.shop.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.shop.DeleteOrder(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) orderStats(c *gin.Context) {
	stats, err := s.shop.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) exportOrders(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}
	orders, err := s.shop.ListOrders(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := storage.OrdersWorkbook(orders)
	if err != nil {
		s.fail(c, err)
		return
	}
	sendWorkbook(c, storage.OrdersReportName(s.now()), data)
}

func (s *Server) exportOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := s.shop.GetOrder(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := storage.OrderWorkbook(*order)
	if err != nil {
		s.fail(c, err)
		return
	}
	sendWorkbook(c, storage.OrderReportName(*order), data)
}

func sendWorkbook(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, storage.XLSXContentType, data)
}
