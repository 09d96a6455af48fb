// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
	"github.com/tokita/tokita-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ProductView is the catalog shape: the record plus the CDN image url and
// a flat category name.
type ProductView struct {
	ID           uuid.UUID  `json:"id"`
	CategoryID   *uuid.UUID `json:"category_id"`
	SellerID     *uuid.UUID `json:"seller_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Price        int64      `json:"price"`
	Stock        int        `json:"stock"`
	IsAvailable  bool       `json:"is_available"`
	ImageURL     *string    `json:"image_url"`
	Images       []string   `json:"images"`
	CategoryName *string    `json:"category_name"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CategoryView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL *string   `json:"image_url"`
}

func NewProductView(p *models.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsAvailable: p.Stock > 0,
		ImageURL:    p.ImageURL(),
		Images:      p.Images,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		view.CategoryName = &p.Category.Name
	}
	return view
}

type ProductListResult struct {
	Products []ProductView        `json:"products"`
	Meta     utils.PaginationMeta `json:"meta"`
}

// List returns the catalog, newest first. A non-empty query filters by
// name or description, case-insensitive.
func (s *ProductService) List(ctx context.Context, query string, params utils.PaginationParams) (*ProductListResult, error) {
	db := s.db.WithContext(ctx).Model(&models.Product{})

	if query != "" {
		pattern := "%" + query + "%"
		db = db.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	err := utils.ApplyPagination(db, params).
		Preload("Category").
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products: toProductViews(products),
		Meta:     utils.CreatePaginationMeta(params, total),
	}, nil
}

func (s *ProductService) Get(ctx context.Context, productID uuid.UUID) (*ProductView, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := NewProductView(&product)
	return &view, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]CategoryView, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, CategoryView{
			ID:       categories[i].ID,
			Name:     categories[i].Name,
			ImageURL: categories[i].ImageURL(),
		})
	}
	return views, nil
}

func (s *ProductService) CategoryProducts(ctx context.Context, categoryID uuid.UUID, params utils.PaginationParams) (*ProductListResult, error) {
	var category models.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	db := s.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	err = utils.ApplyPagination(db, params).
		Preload("Category").
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products: toProductViews(products),
		Meta:     utils.CreatePaginationMeta(params, total),
	}, nil
}

func toProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, NewProductView(&products[i]))
	}
	return views
}
