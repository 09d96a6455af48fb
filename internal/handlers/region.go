// internal/handlers/region.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tokita/tokita-backend/internal/region"
	"github.com/tokita/tokita-backend/internal/utils"
)

type RegionHandler struct {
	directory *region.Directory
}

func NewRegionHandler(directory *region.Directory) *RegionHandler {
	return &RegionHandler{directory: directory}
}

// GET /regions/provinces
func (h *RegionHandler) Provinces(c *gin.Context) {
	provinces, err := h.directory.Provinces(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar provinsi berhasil dimuat.", provinces)
}

// GET /regions/cities
func (h *RegionHandler) Cities(c *gin.Context) {
	cities, err := h.directory.Cities(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar kota berhasil dimuat.", cities)
}

// GET /regions/districts/:regencyCode
func (h *RegionHandler) Districts(c *gin.Context) {
	districts, err := h.directory.Districts(c.Request.Context(), c.Param("regencyCode"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar kecamatan berhasil dimuat.", districts)
}

// GET /regions/villages/:districtCode
func (h *RegionHandler) Villages(c *gin.Context) {
	villages, err := h.directory.Villages(c.Request.Context(), c.Param("districtCode"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar desa berhasil dimuat.", villages)
}
