package handler

import (
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/pagination"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductionHandler struct {
	productionService service.ProductionService
}

func NewProductionHandler(productionService service.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

func (h *ProductionHandler) RegisterRoutes(router *gin.RouterGroup) {
	productions := router.Group("/api/productions")
	{
		productions.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListProductions)
		productions.POST("", middleware.RequireRole("admin", "manager"), h.CreateProduction)
		productions.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetProduction)
		productions.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateProduction)
		productions.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.DeleteProduction)
		productions.POST("/:id/start", middleware.RequireRole("admin", "manager", "staff"), h.Start)
		productions.POST("/:id/complete", middleware.RequireRole("admin", "manager", "staff"), h.Complete)
		productions.POST("/:id/hold", middleware.RequireRole("admin", "manager"), h.Hold)
		productions.POST("/:id/resume", middleware.RequireRole("admin", "manager"), h.Resume)
		productions.POST("/:id/cancel", middleware.RequireRole("admin", "manager"), h.Cancel)
		productions.GET("/:id/items", middleware.RequireRole("admin", "manager", "staff"), h.ListItems)
		productions.POST("/:id/items", middleware.RequireRole("admin", "manager"), h.AddItem)
	}

	productionItems := router.Group("/api/production-items")
	{
		productionItems.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateItem)
		productionItems.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.RemoveItem)
	}
}

// ListProductions returns paginated production runs
// @Summary      List productions
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by status (PLANNED, IN_PROGRESS, ON_HOLD, COMPLETED, CANCELLED)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/productions [get]
func (h *ProductionHandler) ListProductions(c *gin.Context) {
	p := pagination.Parse(c)
	status := c.Query("status")

	productions, total, err := h.productionService.ListProductions(c.Request.Context(), p.Page, p.Limit, status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"productions": productions,
		"total":       total,
		"page":        p.Page,
		"limit":       p.Limit,
	}))
}

// CreateProduction plans a new manufacturing run
// @Summary      Create production
// @Description  Creates a PLANNED production run, optionally with material lines
// @Tags         productions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductionRequest  true  "Create Production Payload"
// @Success      201  {object}  response.Response{data=model.Production}
// @Failure      400  {object}  response.Response
// @Router       /api/productions [post]
func (h *ProductionHandler) CreateProduction(c *gin.Context) {
	var req service.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	production, err := h.productionService.CreateProduction(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, production))
}

// GetProduction returns one production run with its material lines
// @Summary      Get production
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response{data=model.Production}
// @Failure      404  {object}  response.Response
// @Router       /api/productions/{id} [get]
func (h *ProductionHandler) GetProduction(c *gin.Context) {
	production, err := h.productionService.GetProduction(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, production))
}

// UpdateProduction edits a PLANNED run's header
// @Summary      Update production
// @Tags         productions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Production ID"
// @Param        payload  body      service.UpdateProductionRequest  true  "Update Production Payload"
// @Success      200  {object}  response.Response{data=model.Production}
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id} [put]
func (h *ProductionHandler) UpdateProduction(c *gin.Context) {
	var req service.UpdateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	production, err := h.productionService.UpdateProduction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, production))
}

// DeleteProduction removes a PLANNED run
// @Summary      Delete production
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id} [delete]
func (h *ProductionHandler) DeleteProduction(c *gin.Context) {
	if err := h.productionService.DeleteProduction(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Production deleted"}))
}

// Start consumes raw materials and moves the run to IN_PROGRESS
// @Summary      Start production
// @Description  Debits every material line from stock atomically; fails whole if any line is short
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response{data=model.Production}
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id}/start [post]
func (h *ProductionHandler) Start(c *gin.Context) {
	production, err := h.productionService.Start(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, production))
}

// Complete credits the finished product and closes the run
// @Summary      Complete production
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response{data=model.Production}
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id}/complete [post]
func (h *ProductionHandler) Complete(c *gin.Context) {
	production, err := h.productionService.Complete(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, production))
}

// Hold pauses an IN_PROGRESS run
// @Summary      Hold production
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response{data=model.Production}
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id}/hold [post]
func (h *ProductionHandler) Hold(c *gin.Context) {
	production, err := h.productionService.Hold(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, production))
}

// Resume continues an ON_HOLD run
// @Summary      Resume production
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response{data=model.Production}
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id}/resume [post]
func (h *ProductionHandler) Resume(c *gin.Context) {
	production, err := h.productionService.Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, production))
}

// Cancel aborts a non-terminal run, restoring consumed materials
// @Summary      Cancel production
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response{data=model.Production}
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id}/cancel [post]
func (h *ProductionHandler) Cancel(c *gin.Context) {
	production, err := h.productionService.Cancel(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, production))
}

// ListItems returns a run's material lines
// @Summary      List production items
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/productions/{id}/items [get]
func (h *ProductionHandler) ListItems(c *gin.Context) {
	items, err := h.productionService.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"items": items}))
}

// AddItem appends a material line to a PLANNED run
// @Summary      Add production item
// @Tags         productions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Production ID"
// @Param        payload  body      service.ProductionLineRequest  true  "Production Line Payload"
// @Success      201  {object}  response.Response{data=model.ProductionItem}
// @Failure      409  {object}  response.Response
// @Router       /api/productions/{id}/items [post]
func (h *ProductionHandler) AddItem(c *gin.Context) {
	var req service.ProductionLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.productionService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem edits a material line of a PLANNED run
// @Summary      Update production item
// @Tags         productions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Production Item ID"
// @Param        payload  body      service.ProductionLineRequest  true  "Production Line Payload"
// @Success      200  {object}  response.Response{data=model.ProductionItem}
// @Failure      409  {object}  response.Response
// @Router       /api/production-items/{id} [put]
func (h *ProductionHandler) UpdateItem(c *gin.Context) {
	var req service.ProductionLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.productionService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// RemoveItem deletes a material line from a PLANNED run
// @Summary      Remove production item
// @Tags         productions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Production Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/production-items/{id} [delete]
func (h *ProductionHandler) RemoveItem(c *gin.Context) {
	if err := h.productionService.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Production item removed"}))
}
