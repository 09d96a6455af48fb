// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
//
// Status strings are the wire values the mobile client already speaks, so
// they stay in Indonesian.
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "menunggu_pembayaran"
	OrderStatusProcessing      OrderStatus = "diproses"
	OrderStatusShipped         OrderStatus = "dikirim"
	OrderStatusCompleted       OrderStatus = "selesai"
	OrderStatusCancelled       OrderStatus = "dibatalkan"
)

type PaymentStatus string

const (
	PaymentStatusAwaiting PaymentStatus = "menunggu_pembayaran"
	PaymentStatusPaid     PaymentStatus = "dibayar"
	PaymentStatusFailed   PaymentStatus = "gagal"
)

// PaymentMethodCOD switches an order straight into processing at checkout.
const PaymentMethodCOD = "COD"

type MessageType string

const (
	MessageTypeText             MessageType = "text"
	MessageTypeProductReference MessageType = "product_reference"
)
