package handler

import (
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/pagination"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListOrders)
		orders.POST("", middleware.RequireRole("admin", "manager"), h.CreateOrder)
		orders.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetOrder)
		orders.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateOrder)
		orders.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.DeleteOrder)
		orders.POST("/:id/confirm", middleware.RequireRole("admin", "manager"), h.Confirm)
		orders.POST("/:id/receive", middleware.RequireRole("admin", "manager", "staff"), h.Receive)
		orders.POST("/:id/cancel", middleware.RequireRole("admin", "manager"), h.Cancel)
		orders.GET("/:id/items", middleware.RequireRole("admin", "manager", "staff"), h.ListItems)
		orders.POST("/:id/items", middleware.RequireRole("admin", "manager"), h.AddItem)
	}

	orderItems := router.Group("/api/order-items")
	{
		orderItems.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateItem)
		orderItems.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.RemoveItem)
	}
}

// ListOrders returns paginated orders
// @Summary      List orders
// @Description  Retrieves a paginated list of orders, optionally filtered by status
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by status (PENDING, CONFIRMED, RECEIVED, CANCELLED)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)
	status := c.Query("status")

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), p.Page, p.Limit, status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	}))
}

// CreateOrder creates a new purchase order
// @Summary      Create order
// @Description  Creates a PENDING purchase order, optionally with line items
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201  {object}  response.Response{data=model.Order}
// @Failure      400  {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// GetOrder returns one order with its lines
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateOrder edits header metadata of a PENDING order
// @Summary      Update order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.UpdateOrderRequest  true  "Update Order Payload"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteOrder removes a PENDING order
// @Summary      Delete order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Order deleted"}))
}

// Confirm moves a PENDING order to CONFIRMED
// @Summary      Confirm order
// @Description  Locks the order for receiving; requires at least one line item
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	order, err := h.orderService.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Receive fulfills a CONFIRMED order in full
// @Summary      Receive order
// @Description  Credits stock for every line and records inbound transactions atomically
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *gin.Context) {
	order, err := h.orderService.Receive(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Cancel aborts a non-terminal order
// @Summary      Cancel order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.orderService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListItems returns an order's line items
// @Summary      List order items
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/items [get]
func (h *OrderHandler) ListItems(c *gin.Context) {
	items, err := h.orderService.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"items": items}))
}

// AddItem appends a line to a PENDING order
// @Summary      Add order item
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Order ID"
// @Param        payload  body      service.OrderLineRequest  true  "Order Line Payload"
// @Success      201  {object}  response.Response{data=model.OrderItem}
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *gin.Context) {
	var req service.OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.orderService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem edits a line of a PENDING order
// @Summary      Update order item
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Order Item ID"
// @Param        payload  body      service.OrderLineRequest  true  "Order Line Payload"
// @Success      200  {object}  response.Response{data=model.OrderItem}
// @Failure      409  {object}  response.Response
// @Router       /api/order-items/{id} [put]
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	var req service.OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.orderService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// RemoveItem deletes a line from a PENDING order
// @Summary      Remove order item
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/order-items/{id} [delete]
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	if err := h.orderService.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Order item removed"}))
}
