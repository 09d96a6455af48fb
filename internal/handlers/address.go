// internal/handlers/address.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tokita/tokita-backend/internal/services"
	"github.com/tokita/tokita-backend/internal/utils"
)

type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// GET /addresses
func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar alamat berhasil dimuat.", addresses)
}

// GET /addresses/:id
func (h *AddressHandler) Get(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	address, err := h.addressService.Get(c.Request.Context(), userID, addressID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Detail alamat berhasil dimuat.", address)
}

// POST /addresses
func (h *AddressHandler) Create(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req services.AddressRequest
	if !bindAndValidate(c, &req) {
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Alamat berhasil disimpan.", address)
}

// PUT /addresses/:id
func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.AddressRequest
	if !bindAndValidate(c, &req) {
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), userID, addressID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Alamat berhasil diperbarui.", address)
}

// POST /addresses/:id/default
func (h *AddressHandler) SetDefault(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.SetDefault(c.Request.Context(), userID, addressID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Alamat utama berhasil diatur.", nil)
}

// DELETE /addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), userID, addressID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Alamat berhasil dihapus.", nil)
}
