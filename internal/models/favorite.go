// internal/models/favorite.go
package models

import (
	"github.com/google/uuid"
)

type Favorite struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:favorites_user_product_unique,priority:1"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:favorites_user_product_unique,priority:2"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
