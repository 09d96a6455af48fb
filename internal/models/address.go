// internal/models/address.go
package models

import (
	"github.com/google/uuid"
)

// Address is a user shipping address. address_line, city and province are
// nullable: when the caller omits them they are derived from the village's
// resolved region data and the persisted value wins on later reads.
type Address struct {
	BaseModel
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Label         string    `json:"label" gorm:"size:255;not null"`
	RecipientName string    `json:"recipient_name" gorm:"size:255;not null"`
	PhoneNumber   string    `json:"phone_number" gorm:"size:20;not null"`
	AddressLine   *string   `json:"address_line" gorm:"type:text"`
	City          *string   `json:"city" gorm:"size:255"`
	Province      *string   `json:"province" gorm:"size:255"`
	PostalCode    string    `json:"postal_code" gorm:"size:20"`
	IsDefault     bool      `json:"is_default" gorm:"not null;default:false"`
	VillageID     *string   `json:"village_id" gorm:"size:20;index"`
	StreetName    *string   `json:"street_name" gorm:"size:255"`
	RT            *string   `json:"rt" gorm:"size:10;column:rt"`
	RW            *string   `json:"rw" gorm:"size:10;column:rw"`
	Latitude      *float64  `json:"latitude" gorm:"type:decimal(15,12)"`
	Longitude     *float64  `json:"longitude" gorm:"type:decimal(15,12)"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}
