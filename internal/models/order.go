// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order is created atomically with its items at checkout. Immutable after
// creation except for status / payment_status transitions.
type Order struct {
	BaseModel
	OrderNumber         string        `json:"order_number" gorm:"size:64;not null;uniqueIndex"`
	UserID              uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	AddressID           uuid.UUID     `json:"address_id" gorm:"type:uuid;not null"`
	ShippingCourierName string        `json:"shipping_courier_name" gorm:"size:255;not null"`
	ShippingCost        int64         `json:"shipping_cost" gorm:"not null"`
	TotalPrice          int64         `json:"total_price" gorm:"not null"`
	PaymentMethod       string        `json:"payment_method" gorm:"size:255;not null"`
	PaymentStatus       PaymentStatus `json:"payment_status" gorm:"size:64;not null;default:'menunggu_pembayaran'"`
	Status              OrderStatus   `json:"status" gorm:"size:64;not null;default:'diproses'"`

	// Relationships
	User    *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Address *Address    `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	Items   []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the product price at lock time; later product price
// changes never touch it.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     int64     `json:"price" gorm:"not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
