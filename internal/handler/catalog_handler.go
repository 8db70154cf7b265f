package handler

import (
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/service"
	"warehouse-backend/pkg/pagination"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the item and product master data plus the
// read-only warehouse list.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListItems)
		items.POST("", middleware.RequireRole("admin", "manager"), h.CreateItem)
		items.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetItem)
		items.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateItem)
		items.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteItem)
	}

	products := router.Group("/api/products")
	{
		products.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListProducts)
		products.POST("", middleware.RequireRole("admin", "manager"), h.CreateProduct)
		products.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetProduct)
		products.PUT("/:id", middleware.RequireRole("admin", "manager"), h.UpdateProduct)
		products.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteProduct)
	}

	warehouses := router.Group("/api/warehouses")
	{
		warehouses.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListWarehouses)
		warehouses.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetWarehouse)
	}
}

// ListItems returns paginated items
// @Summary      List items
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by name or code"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	p := pagination.Parse(c)
	search := c.Query("search")

	items, total, err := h.catalogService.ListItems(c.Request.Context(), p.Page, p.Limit, search)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// CreateItem creates a new raw-material item
// @Summary      Create item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201  {object}  response.Response{data=model.Item}
// @Failure      400  {object}  response.Response
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// GetItem returns one item
// @Summary      Get item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=model.Item}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem edits item master data (not stock)
// @Summary      Update item
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Item ID"
// @Param        payload  body      service.UpdateItemRequest  true  "Update Item Payload"
// @Success      200  {object}  response.Response{data=model.Item}
// @Failure      400  {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem soft deletes an item with zero stock
// @Summary      Delete item
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalogService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Item deleted"}))
}

// ListProducts returns paginated products
// @Summary      List products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by name or code"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)
	search := c.Query("search")

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), p.Page, p.Limit, search)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// CreateProduct creates a new finished-good product
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201  {object}  response.Response{data=model.Product}
// @Failure      400  {object}  response.Response
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// GetProduct returns one product
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// UpdateProduct edits product master data (not stock)
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct soft deletes a product with zero stock
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Product deleted"}))
}

// ListWarehouses returns all warehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.catalogService.ListWarehouses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"warehouses": warehouses}))
}

// GetWarehouse returns one warehouse
// @Summary      Get warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Warehouse ID"
// @Success      200  {object}  response.Response{data=model.Warehouse}
// @Failure      404  {object}  response.Response
// @Router       /api/warehouses/{id} [get]
func (h *CatalogHandler) GetWarehouse(c *gin.Context) {
	warehouse, err := h.catalogService.GetWarehouse(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, warehouse))
}
