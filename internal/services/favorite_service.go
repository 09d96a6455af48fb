// internal/services/favorite_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
)

type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

type AddFavoriteRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type FavoriteView struct {
	ID      uuid.UUID   `json:"id"`
	Product ProductView `json:"product"`
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]FavoriteView, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Product").
		Preload("Product.Category").
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}

	views := make([]FavoriteView, 0, len(favorites))
	for i := range favorites {
		if favorites[i].Product == nil {
			continue
		}
		views = append(views, FavoriteView{
			ID:      favorites[i].ID,
			Product: NewProductView(favorites[i].Product),
		})
	}
	return views, nil
}

// Add is idempotent: favoriting the same product twice returns the
// existing row.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, req *AddFavoriteRequest) (*models.Favorite, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, NewValidationError("product_id", "Produk tidak valid.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, NewValidationError("product_id", "Produk tidak ditemukan.")
	}

	favorite := models.Favorite{UserID: userID, ProductID: productID}
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		FirstOrCreate(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &favorite, nil
		}
		return nil, err
	}
	return &favorite, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, favoriteID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", favoriteID, userID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FavoriteService) RemoveByProduct(ctx context.Context, userID, productID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
