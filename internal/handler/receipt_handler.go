package handler

import (
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/pagination"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	receiptService service.ReceiptService
}

func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

func (h *ReceiptHandler) RegisterRoutes(router *gin.RouterGroup) {
	receipts := router.Group("/api/material-receipts")
	{
		receipts.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListReceipts)
		receipts.POST("", middleware.RequireRole("admin", "manager"), h.CreateReceipt)
		receipts.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetReceipt)
		receipts.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateReceipt)
		receipts.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.DeleteReceipt)
		receipts.POST("/:id/receive", middleware.RequireRole("admin", "manager", "staff"), h.Receive)
		receipts.POST("/:id/cancel", middleware.RequireRole("admin", "manager"), h.Cancel)
		receipts.GET("/:id/items", middleware.RequireRole("admin", "manager", "staff"), h.ListItems)
		receipts.POST("/:id/items", middleware.RequireRole("admin", "manager"), h.AddItem)
	}

	receiptItems := router.Group("/api/material-receipt-items")
	{
		receiptItems.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateItem)
		receiptItems.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.RemoveItem)
	}
}

// ListReceipts returns paginated material receipts
// @Summary      List material receipts
// @Tags         material-receipts
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by status (PENDING, RECEIVED, CANCELLED)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/material-receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	p := pagination.Parse(c)
	status := c.Query("status")

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), p.Page, p.Limit, status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"receipts": receipts,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// CreateReceipt creates a new material receipt
// @Summary      Create material receipt
// @Tags         material-receipts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReceiptRequest  true  "Create Receipt Payload"
// @Success      201  {object}  response.Response{data=model.MaterialReceipt}
// @Failure      400  {object}  response.Response
// @Router       /api/material-receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var req service.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, receipt))
}

// GetReceipt returns one material receipt with its lines
// @Summary      Get material receipt
// @Tags         material-receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=model.MaterialReceipt}
// @Failure      404  {object}  response.Response
// @Router       /api/material-receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// UpdateReceipt edits a PENDING receipt's header
// @Summary      Update material receipt
// @Tags         material-receipts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Receipt ID"
// @Param        payload  body      service.UpdateReceiptRequest  true  "Update Receipt Payload"
// @Success      200  {object}  response.Response{data=model.MaterialReceipt}
// @Failure      409  {object}  response.Response
// @Router       /api/material-receipts/{id} [put]
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	var req service.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	receipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// DeleteReceipt removes a PENDING receipt
// @Summary      Delete material receipt
// @Tags         material-receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/material-receipts/{id} [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	if err := h.receiptService.DeleteReceipt(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Material receipt deleted"}))
}

// Receive fulfills a PENDING receipt in full
// @Summary      Receive material receipt
// @Description  Credits stock for every line and records inbound transactions atomically
// @Tags         material-receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=model.MaterialReceipt}
// @Failure      409  {object}  response.Response
// @Router       /api/material-receipts/{id}/receive [post]
func (h *ReceiptHandler) Receive(c *gin.Context) {
	receipt, err := h.receiptService.Receive(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// Cancel aborts a PENDING receipt
// @Summary      Cancel material receipt
// @Tags         material-receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=model.MaterialReceipt}
// @Failure      409  {object}  response.Response
// @Router       /api/material-receipts/{id}/cancel [post]
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	receipt, err := h.receiptService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// ListItems returns a receipt's line items
// @Summary      List receipt items
// @Tags         material-receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/material-receipts/{id}/items [get]
func (h *ReceiptHandler) ListItems(c *gin.Context) {
	items, err := h.receiptService.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"items": items}))
}

// AddItem appends a line to a PENDING receipt
// @Summary      Add receipt item
// @Tags         material-receipts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Receipt ID"
// @Param        payload  body      service.ReceiptLineRequest  true  "Receipt Line Payload"
// @Success      201  {object}  response.Response{data=model.MaterialReceiptItem}
// @Failure      409  {object}  response.Response
// @Router       /api/material-receipts/{id}/items [post]
func (h *ReceiptHandler) AddItem(c *gin.Context) {
	var req service.ReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.receiptService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem edits a line of a PENDING receipt
// @Summary      Update receipt item
// @Tags         material-receipts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Receipt Item ID"
// @Param        payload  body      service.ReceiptLineRequest  true  "Receipt Line Payload"
// @Success      200  {object}  response.Response{data=model.MaterialReceiptItem}
// @Failure      409  {object}  response.Response
// @Router       /api/material-receipt-items/{id} [put]
func (h *ReceiptHandler) UpdateItem(c *gin.Context) {
	var req service.ReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.receiptService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// RemoveItem deletes a line from a PENDING receipt
// @Summary      Remove receipt item
// @Tags         material-receipts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receipt Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/material-receipt-items/{id} [delete]
func (h *ReceiptHandler) RemoveItem(c *gin.Context) {
	if err := h.receiptService.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Receipt item removed"}))
}
