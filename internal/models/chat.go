// internal/models/chat.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom is unique per (buyer, seller, product); the composite unique
// index is the last line of defense behind the application-level dedup.
// UpdatedAt is bumped to each new message's creation time for ordering.
type ChatRoom struct {
	BaseModel
	BuyerID       uuid.UUID  `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:chat_rooms_unique_per_product,priority:1"`
	SellerID      uuid.UUID  `json:"seller_id" gorm:"type:uuid;not null;uniqueIndex:chat_rooms_unique_per_product,priority:2"`
	ProductID     uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:chat_rooms_unique_per_product,priority:3"`
	LastMessageID *uuid.UUID `json:"last_message_id" gorm:"type:uuid"`

	// Relationships
	Buyer       *User         `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller      *User         `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Product     *Product      `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Messages    []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:RoomID"`
	LastMessage *ChatMessage  `json:"last_message,omitempty" gorm:"foreignKey:LastMessageID"`
}

func (r *ChatRoom) IsParticipant(userID uuid.UUID) bool {
	return r.BuyerID == userID || r.SellerID == userID
}

// OtherParticipantID returns the counterpart of userID in the room, or nil
// when userID is not a participant.
func (r *ChatRoom) OtherParticipantID(userID uuid.UUID) *uuid.UUID {
	if !r.IsParticipant(userID) {
		return nil
	}

	other := r.SellerID
	if r.SellerID == userID {
		other = r.BuyerID
	}
	return &other
}

// ChatMessage is immutable once created. type "text" carries content,
// type "product_reference" carries a payload snapshot; never both.
type ChatMessage struct {
	BaseModel
	RoomID   uuid.UUID   `json:"room_id" gorm:"type:uuid;not null;index"`
	SenderID uuid.UUID   `json:"sender_id" gorm:"type:uuid;not null;index"`
	Type     MessageType `json:"type" gorm:"size:50;not null;default:'text'"`
	Content  *string     `json:"content" gorm:"type:text"`
	Payload  JSONB       `json:"payload" gorm:"type:jsonb"`

	// Relationships
	Room   *ChatRoom         `json:"-" gorm:"foreignKey:RoomID"`
	Sender *User             `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Reads  []ChatMessageRead `json:"reads,omitempty" gorm:"foreignKey:MessageID"`
}

// ChatMessageRead is the per-(message, participant) tracking row, created in
// the same transaction as its message. The sender's row is pre-marked read.
type ChatMessageRead struct {
	BaseModel
	MessageID uuid.UUID  `json:"message_id" gorm:"type:uuid;not null;uniqueIndex:chat_message_reads_unique,priority:1"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:chat_message_reads_unique,priority:2;index"`
	ReadAt    *time.Time `json:"read_at"`

	Message *ChatMessage `json:"-" gorm:"foreignKey:MessageID"`
}
