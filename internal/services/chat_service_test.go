// internal/services/chat_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokita/tokita-backend/internal/models"
)

func TestOutgoingText(t *testing.T) {
	out := outgoingText("Halo")

	assert.Equal(t, models.MessageTypeText, out.msgType)
	assert.Equal(t, "Halo", *out.content)
	assert.Nil(t, out.payload)
}

func TestOutgoingProductReference(t *testing.T) {
	product := &models.Product{
		Name:   "Beras Premium",
		Price:  120000,
		Stock:  3,
		Images: []string{"products/beras.png"},
	}
	product.ID = uuid.New()

	out := outgoingProductReference(product)

	assert.Equal(t, models.MessageTypeProductReference, out.msgType)
	assert.Nil(t, out.content)
	assert.Equal(t, product.ID.String(), out.payload["product_id"])
	assert.Equal(t, "Beras Premium", out.payload["name"])
	assert.Equal(t, int64(120000), out.payload["price"])
	assert.Equal(t, true, out.payload["is_available"])
}

func TestProductContextOutOfStock(t *testing.T) {
	product := &models.Product{Name: "Batik Tulis", Stock: 0}
	product.ID = uuid.New()

	payload := productContext(product)
	assert.Equal(t, false, payload["is_available"])
	assert.Equal(t, 0, payload["stock"])
}

func TestRoomParticipants(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	stranger := uuid.New()

	room := &models.ChatRoom{BuyerID: buyer, SellerID: seller}

	assert.True(t, room.IsParticipant(buyer))
	assert.True(t, room.IsParticipant(seller))
	assert.False(t, room.IsParticipant(stranger))

	assert.Equal(t, seller, *room.OtherParticipantID(buyer))
	assert.Equal(t, buyer, *room.OtherParticipantID(seller))
	assert.Nil(t, room.OtherParticipantID(stranger))
}

func TestMessageViewOwnership(t *testing.T) {
	svc := &ChatService{}
	viewer := uuid.New()
	other := uuid.New()

	content := "Masih ada stok?"
	message := &models.ChatMessage{
		RoomID:   uuid.New(),
		SenderID: viewer,
		Type:     models.MessageTypeText,
		Content:  &content,
	}
	message.ID = uuid.New()
	message.Reads = []models.ChatMessageRead{
		{MessageID: message.ID, UserID: viewer},
		{MessageID: message.ID, UserID: other},
	}

	view := svc.messageView(message, viewer, true)
	assert.True(t, view.IsMine)
	assert.False(t, view.IsRead, "recipient has not read it yet")

	view = svc.messageView(message, other, true)
	assert.False(t, view.IsMine)
	assert.False(t, view.IsRead, "recipient has not opened the room yet")

	now := time.Now()
	message.Reads[1].ReadAt = &now

	view = svc.messageView(message, viewer, true)
	assert.True(t, view.IsRead, "recipient's read row flips the sender's view")

	view = svc.messageView(message, other, true)
	assert.True(t, view.IsRead)
}

func TestReadRowsFanOut(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	room := &models.ChatRoom{BuyerID: buyer, SellerID: seller}
	messageID := uuid.New()
	now := time.Now()

	rows := readRows(room, messageID, buyer, now)
	require.Len(t, rows, 2)

	assert.Equal(t, buyer, rows[0].UserID)
	require.NotNil(t, rows[0].ReadAt, "sender's own copy starts read")
	assert.Equal(t, now, *rows[0].ReadAt)

	assert.Equal(t, seller, rows[1].UserID)
	assert.Nil(t, rows[1].ReadAt, "recipient's copy starts unread")
}

func TestReadRowsSelfChatRoom(t *testing.T) {
	// A room whose buyer and seller are the same user must not produce
	// two rows with the same (message, user) key.
	user := uuid.New()
	room := &models.ChatRoom{BuyerID: user, SellerID: user}

	rows := readRows(room, uuid.New(), user, time.Now())
	require.Len(t, rows, 1)
	assert.Equal(t, user, rows[0].UserID)
	assert.NotNil(t, rows[0].ReadAt)
}
