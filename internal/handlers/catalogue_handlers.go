package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/services"
)

// CatalogueHandler serves product categories and products.
type CatalogueHandler struct {
	catalogueService services.CatalogueService
	defaultPageSize  int
}

// NewCatalogueHandler creates a new CatalogueHandler.
func NewCatalogueHandler(cs services.CatalogueService, defaultPageSize int) *CatalogueHandler {
	return &CatalogueHandler{catalogueService: cs, defaultPageSize: defaultPageSize}
}

// --- Product categories ---

func (h *CatalogueHandler) CreateCategory(c *gin.Context) {
	var req services.ProductCategoryRequest
	if !bindJSON(c, &req, "CreateCategory") {
		return
	}
	category, err := h.catalogueService.CreateCategory(req)
	if err != nil {
		respondServiceError(c, err, "CreateCategory: Error from catalogueService.CreateCategory", "Failed to create product category.")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogueHandler) GetCategories(c *gin.Context) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}
	page, err := h.catalogueService.GetCategories(pageReq)
	if err != nil {
		respondServiceError(c, err, "GetCategories: Error from catalogueService.GetCategories", "Failed to fetch product categories.")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogueHandler) GetCategoryByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}
	category, err := h.catalogueService.GetCategoryByID(id)
	if err != nil {
		respondServiceError(c, err, "GetCategoryByID: Error from catalogueService.GetCategoryByID", "Failed to fetch product category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogueHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}
	var req services.ProductCategoryRequest
	if !bindJSON(c, &req, "UpdateCategory") {
		return
	}
	category, err := h.catalogueService.UpdateCategory(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCategory: Error from catalogueService.UpdateCategory", "Failed to update product category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogueHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}
	if err := h.catalogueService.DeleteCategory(id); err != nil {
		respondServiceError(c, err, "DeleteCategory: Error from catalogueService.DeleteCategory", "Failed to delete product category.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product category deleted successfully"})
}

// GetCategoryProducts pages through one category, as the bar product grid does.
func (h *CatalogueHandler) GetCategoryProducts(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}
	h.listProducts(c, &id)
}

// --- Products ---

func (h *CatalogueHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req, "CreateProduct") {
		return
	}
	product, err := h.catalogueService.CreateProduct(req)
	if err != nil {
		respondServiceError(c, err, "CreateProduct: Error from catalogueService.CreateProduct", "Failed to create product.")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProducts lists products, optionally filtered by the category_id query parameter.
func (h *CatalogueHandler) GetProducts(c *gin.Context) {
	categoryID, ok := optionalInt64Query(c, "category_id")
	if !ok {
		return
	}
	h.listProducts(c, categoryID)
}

func (h *CatalogueHandler) listProducts(c *gin.Context, categoryID *int64) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}
	page, err := h.catalogueService.GetProducts(categoryID, pageReq)
	if err != nil {
		respondServiceError(c, err, "GetProducts: Error from catalogueService.GetProducts", "Failed to fetch products.")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogueHandler) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}
	product, err := h.catalogueService.GetProductByID(id)
	if err != nil {
		respondServiceError(c, err, "GetProductByID: Error from catalogueService.GetProductByID", "Failed to fetch product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogueHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}
	var req services.UpdateProductRequest
	if !bindJSON(c, &req, "UpdateProduct") {
		return
	}
	product, err := h.catalogueService.UpdateProduct(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateProduct: Error from catalogueService.UpdateProduct", "Failed to update product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogueHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}
	if err := h.catalogueService.DeleteProduct(id); err != nil {
		respondServiceError(c, err, "DeleteProduct: Error from catalogueService.DeleteProduct", "Failed to delete product.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
