// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 1, ClampPage(-5))
	assert.Equal(t, 3, ClampPage(3))
}

func TestClampPerPage(t *testing.T) {
	assert.Equal(t, 50, ClampPerPage(0))
	assert.Equal(t, 50, ClampPerPage(-1))
	assert.Equal(t, 1, ClampPerPage(1))
	assert.Equal(t, 100, ClampPerPage(100))
	assert.Equal(t, 100, ClampPerPage(250))
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/products?page=2&per_page=500", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 100, params.PerPage)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/products", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 50, params.PerPage)
}

func TestCreatePaginationMeta(t *testing.T) {
	meta := CreatePaginationMeta(PaginationParams{Page: 2, PerPage: 50}, 120)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 50, meta.PerPage)
	assert.Equal(t, int64(120), meta.Total)
}

func TestCreatePaginationMetaEmpty(t *testing.T) {
	meta := CreatePaginationMeta(PaginationParams{Page: 1, PerPage: 50}, 0)
	assert.Equal(t, 1, meta.LastPage)
}
