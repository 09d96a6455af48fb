// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaginationParams struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// GetPaginationParams reads page/per_page query parameters, clamping
// per_page into [1, 100] with a default of 50.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

	return PaginationParams{
		Page:    ClampPage(page),
		PerPage: ClampPerPage(perPage),
	}
}

func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func ClampPerPage(perPage int) int {
	if perPage < 1 {
		return 50
	}
	if perPage > 100 {
		return 100
	}
	return perPage
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	offset := (params.Page - 1) * params.PerPage
	return db.Offset(offset).Limit(params.PerPage)
}

func CreatePaginationMeta(params PaginationParams, total int64) PaginationMeta {
	lastPage := int(math.Ceil(float64(total) / float64(params.PerPage)))
	if lastPage < 1 {
		lastPage = 1
	}

	return PaginationMeta{
		CurrentPage: params.Page,
		LastPage:    lastPage,
		PerPage:     params.PerPage,
		Total:       total,
	}
}
