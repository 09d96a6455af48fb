// internal/handlers/product.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tokita/tokita-backend/internal/services"
	"github.com/tokita/tokita-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products?q=&page=&per_page=
func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	query := strings.TrimSpace(c.Query("q"))

	result, err := h.productService.List(c.Request.Context(), query, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar produk berhasil dimuat.", result)
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Detail produk berhasil dimuat.", product)
}

// GET /categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar kategori berhasil dimuat.", categories)
}

// GET /categories/:id/products
func (h *ProductHandler) CategoryProducts(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.productService.CategoryProducts(c.Request.Context(), categoryID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar produk berhasil dimuat.", result)
}
