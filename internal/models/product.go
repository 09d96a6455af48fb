// internal/models/product.go
package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// imageBaseURL is the CDN prefix for stored image keys. Set once at startup.
var imageBaseURL string

func SetImageBaseURL(base string) {
	imageBaseURL = strings.TrimRight(base, "/")
}

type Product struct {
	BaseModel
	CategoryID  *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	SellerID    *uuid.UUID     `json:"seller_id" gorm:"type:uuid;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       int64          `json:"price" gorm:"not null"`
	Stock       int            `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Seller   *User     `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// ImageURL joins the first stored image key with the CDN base URL.
func (p *Product) ImageURL() *string {
	if len(p.Images) == 0 {
		return nil
	}

	key := strings.TrimLeft(p.Images[0], "/")
	if key == "" {
		return nil
	}

	url := key
	if imageBaseURL != "" {
		url = imageBaseURL + "/" + key
	}
	return &url
}

type Category struct {
	BaseModel
	Name     string  `json:"name" gorm:"size:255;not null;uniqueIndex"`
	ImageKey *string `json:"-" gorm:"size:512;column:image_url"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

func (c *Category) ImageURL() *string {
	if c.ImageKey == nil || *c.ImageKey == "" {
		return nil
	}

	url := strings.TrimLeft(*c.ImageKey, "/")
	if imageBaseURL != "" {
		url = imageBaseURL + "/" + url
	}
	return &url
}
