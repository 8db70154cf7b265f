package handler

import (
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/pagination"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/api/transactions")
	{
		transactions.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListTransactions)
		transactions.GET("/recent", middleware.RequireRole("admin", "manager", "staff"), h.RecentTransactions)
		transactions.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetTransaction)
		transactions.POST("/item/inbound", middleware.RequireRole("admin", "manager"), h.ItemInbound)
		transactions.POST("/item/outbound", middleware.RequireRole("admin", "manager"), h.ItemOutbound)
		transactions.POST("/product/inbound", middleware.RequireRole("admin", "manager"), h.ProductInbound)
		transactions.POST("/product/outbound", middleware.RequireRole("admin", "manager"), h.ProductOutbound)
	}
}

// ListTransactions returns the filtered transaction history
// @Summary      List transactions
// @Description  Retrieves paginated stock transactions newest first, with optional filters
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        page          query  int     false  "Page number (default 1)"
// @Param        limit         query  int     false  "Number of items per page (default 20)"
// @Param        type          query  string  false  "Filter by transaction type"
// @Param        entity        query  string  false  "Filter by entity type (ITEM, PRODUCT)"
// @Param        status        query  string  false  "Filter by status"
// @Param        warehouse_id  query  string  false  "Filter by warehouse"
// @Param        item_id       query  string  false  "Filter by item"
// @Param        product_id    query  string  false  "Filter by product"
// @Param        user_id       query  string  false  "Filter by user"
// @Param        reference     query  string  false  "Filter by reference number"
// @Param        from          query  string  false  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param        to            query  string  false  "End date (RFC3339 or YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	p := pagination.Parse(c)

	q := service.TransactionListQuery{
		Page:      p.Page,
		Limit:     p.Limit,
		Type:      c.Query("type"),
		Entity:    c.Query("entity"),
		Status:    c.Query("status"),
		Warehouse: c.Query("warehouse_id"),
		Item:      c.Query("item_id"),
		Product:   c.Query("product_id"),
		User:      c.Query("user_id"),
		Reference: c.Query("reference"),
		From:      c.Query("from"),
		To:        c.Query("to"),
	}

	transactions, total, err := h.transactionService.ListTransactions(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"total":        total,
		"page":         p.Page,
		"limit":        p.Limit,
	}))
}

// RecentTransactions returns the latest recorded movements
// @Summary      Recent transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/transactions/recent [get]
func (h *TransactionHandler) RecentTransactions(c *gin.Context) {
	transactions, err := h.transactionService.RecentTransactions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"transactions": transactions}))
}

// GetTransaction returns one transaction
// @Summary      Get transaction
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response{data=model.Transaction}
// @Failure      404  {object}  response.Response
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// ItemInbound posts a manual stock-in against an item
// @Summary      Manual item inbound
// @Description  Credits item stock outside any lifecycle document and records the movement
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ManualEntryRequest  true  "Manual Entry Payload"
// @Success      201  {object}  response.Response{data=model.Transaction}
// @Failure      400  {object}  response.Response
// @Router       /api/transactions/item/inbound [post]
func (h *TransactionHandler) ItemInbound(c *gin.Context) {
	h.manualEntry(c, model.EntityTypeItem, model.TxTypeInbound)
}

// ItemOutbound posts a manual stock-out against an item
// @Summary      Manual item outbound
// @Description  Debits item stock; rejected with INSUFFICIENT_STOCK when short
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ManualEntryRequest  true  "Manual Entry Payload"
// @Success      201  {object}  response.Response{data=model.Transaction}
// @Failure      409  {object}  response.Response
// @Router       /api/transactions/item/outbound [post]
func (h *TransactionHandler) ItemOutbound(c *gin.Context) {
	h.manualEntry(c, model.EntityTypeItem, model.TxTypeOutbound)
}

// ProductInbound posts a manual stock-in against a product
// @Summary      Manual product inbound
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ManualEntryRequest  true  "Manual Entry Payload"
// @Success      201  {object}  response.Response{data=model.Transaction}
// @Failure      400  {object}  response.Response
// @Router       /api/transactions/product/inbound [post]
func (h *TransactionHandler) ProductInbound(c *gin.Context) {
	h.manualEntry(c, model.EntityTypeProduct, model.TxTypeInbound)
}

// ProductOutbound posts a manual stock-out against a product
// @Summary      Manual product outbound
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ManualEntryRequest  true  "Manual Entry Payload"
// @Success      201  {object}  response.Response{data=model.Transaction}
// @Failure      409  {object}  response.Response
// @Router       /api/transactions/product/outbound [post]
func (h *TransactionHandler) ProductOutbound(c *gin.Context) {
	h.manualEntry(c, model.EntityTypeProduct, model.TxTypeOutbound)
}

func (h *TransactionHandler) manualEntry(c *gin.Context, entityType model.EntityType, txType model.TransactionType) {
	var req service.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tx, err := h.transactionService.CreateManualEntry(c.Request.Context(), c.GetString("userID"), entityType, txType, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}
