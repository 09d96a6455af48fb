// internal/handlers/favorite.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tokita/tokita-backend/internal/services"
	"github.com/tokita/tokita-backend/internal/utils"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// GET /favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar favorit berhasil dimuat.", favorites)
}

// POST /favorites
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req services.AddFavoriteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	favorite, err := h.favoriteService.Add(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Produk ditambahkan ke favorit.", favorite)
}

// DELETE /favorites/:id
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	favoriteID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, favoriteID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Produk dihapus dari favorit.", nil)
}

// DELETE /favorites/products/:productId
func (h *FavoriteHandler) RemoveByProduct(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	if err := h.favoriteService.RemoveByProduct(c.Request.Context(), userID, productID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Produk dihapus dari favorit.", nil)
}
