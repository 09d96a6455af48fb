// internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
	"github.com/tokita/tokita-backend/internal/utils"
)

// DefaultGreeting opens a new conversation when the buyer sends none.
const DefaultGreeting = "Halo, apakah produk ini tersedia?"

// MessageNotifier pushes a new-message notification to the recipient.
// Delivery is best-effort and must never fail the send.
type MessageNotifier interface {
	NotifyNewMessage(ctx context.Context, recipientID uuid.UUID, senderName, preview string)
}

type ChatService struct {
	db       *gorm.DB
	notifier MessageNotifier
}

func NewChatService(db *gorm.DB, notifier MessageNotifier) *ChatService {
	return &ChatService{db: db, notifier: notifier}
}

type CreateRoomRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	SellerID  string  `json:"seller_id" validate:"required,uuid"`
	Message   *string `json:"message"`
}

type SendMessageRequest struct {
	Type    string  `json:"type" validate:"required,oneof=text product_reference"`
	Content *string `json:"content"`
}

type ParticipantView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
}

type MessageView struct {
	ID        uuid.UUID          `json:"id"`
	RoomID    uuid.UUID          `json:"room_id"`
	SenderID  uuid.UUID          `json:"sender_id"`
	Type      models.MessageType `json:"type"`
	Content   *string            `json:"content"`
	Payload   models.JSONB       `json:"payload,omitempty"`
	IsMine    bool               `json:"is_mine"`
	IsRead    bool               `json:"is_read"`
	CreatedAt time.Time          `json:"created_at"`
}

type RoomView struct {
	ID          uuid.UUID        `json:"id"`
	Product     *ProductView     `json:"product"`
	Participant *ParticipantView `json:"participant"`
	LastMessage *MessageView     `json:"last_message"`
	UnreadCount int64            `json:"unread_count"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type RoomMessagesResult struct {
	Messages []MessageView        `json:"messages"`
	Meta     utils.PaginationMeta `json:"meta"`
}

// outgoing is a tagged pre-persistence message: exactly one of content or
// payload is set, matching the type.
type outgoing struct {
	msgType models.MessageType
	content *string
	payload models.JSONB
}

func outgoingText(content string) outgoing {
	return outgoing{msgType: models.MessageTypeText, content: &content}
}

func outgoingProductReference(product *models.Product) outgoing {
	return outgoing{
		msgType: models.MessageTypeProductReference,
		payload: productContext(product),
	}
}

// productContext snapshots the product at message time; later price or
// stock changes do not rewrite chat history.
func productContext(product *models.Product) models.JSONB {
	return models.JSONB{
		"product_id":   product.ID.String(),
		"name":         product.Name,
		"price":        product.Price,
		"stock":        product.Stock,
		"image_url":    product.ImageURL(),
		"is_available": product.Stock > 0,
	}
}

// CreateRoom opens (or returns) the buyer's conversation about a product.
// A new room starts with a product_reference snapshot plus the buyer's
// greeting, all committed together with their read rows.
func (s *ChatService) CreateRoom(ctx context.Context, buyerID uuid.UUID, req *CreateRoomRequest) (*RoomView, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, NewValidationError("product_id", "Produk tidak valid.")
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		return nil, NewValidationError("seller_id", "Penjual tidak valid.")
	}

	if buyerID == sellerID {
		return nil, NewValidationError("seller_id", "Tidak dapat memulai percakapan dengan diri sendiri.")
	}

	var product models.Product
	err = s.db.WithContext(ctx).First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("product_id", "Produk tidak ditemukan.")
		}
		return nil, err
	}
	if product.SellerID == nil || *product.SellerID != sellerID {
		return nil, NewValidationError("seller_id", "Penjual tidak sesuai dengan produk.")
	}

	if room, err := s.findRoom(ctx, buyerID, sellerID, productID); err == nil {
		return s.roomView(ctx, buyerID, room.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	greeting := DefaultGreeting
	if req.Message != nil {
		if trimmed := strings.TrimSpace(*req.Message); trimmed != "" {
			greeting = trimmed
		}
	}

	room := &models.ChatRoom{
		BuyerID:   buyerID,
		SellerID:  sellerID,
		ProductID: productID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		if _, err := s.appendMessage(tx, room, buyerID, outgoingProductReference(&product)); err != nil {
			return err
		}

		message, err := s.appendMessage(tx, room, buyerID, outgoingText(greeting))
		if err != nil {
			return err
		}
		return s.bumpRoom(tx, room, message)
	})
	if err != nil {
		// Lost the creation race: the concurrent insert won, reuse it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := s.findRoom(ctx, buyerID, sellerID, productID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return s.roomView(ctx, buyerID, existing.ID)
		}
		return nil, err
	}

	s.notify(ctx, room, buyerID, greeting)
	return s.roomView(ctx, buyerID, room.ID)
}

// SendMessage appends a message to a room. The message, its read rows and
// the room's last-message pointer commit together, so a visible message
// always has its tracking rows.
func (s *ChatService) SendMessage(ctx context.Context, userID, roomID uuid.UUID, req *SendMessageRequest) (*MessageView, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(userID) {
		return nil, ErrForbidden
	}
	if room.OtherParticipantID(userID) == nil {
		return nil, NewValidationError("room_id", "Ruang obrolan tidak valid.")
	}

	var out outgoing
	switch models.MessageType(req.Type) {
	case models.MessageTypeText:
		content := ""
		if req.Content != nil {
			content = strings.TrimSpace(*req.Content)
		}
		if content == "" {
			return nil, NewValidationError("content", "Pesan tidak boleh kosong.")
		}
		out = outgoingText(content)

	case models.MessageTypeProductReference:
		var product models.Product
		err := s.db.WithContext(ctx).First(&product, "id = ?", room.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("type", "Produk ruang obrolan tidak ditemukan.")
			}
			return nil, err
		}
		out = outgoingProductReference(&product)

	default:
		return nil, NewValidationError("type", "Tipe pesan tidak dikenal.")
	}

	var message *models.ChatMessage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		message, txErr = s.appendMessage(tx, room, userID, out)
		if txErr != nil {
			return txErr
		}
		return s.bumpRoom(tx, room, message)
	})
	if err != nil {
		return nil, err
	}

	preview := ""
	if message.Content != nil {
		preview = *message.Content
	}
	s.notify(ctx, room, userID, preview)

	view := s.messageView(message, userID, false)
	return &view, nil
}

// ListRooms returns the user's conversations, most recently active first.
// Malformed self-chat rooms are excluded outright.
func (s *ChatService) ListRooms(ctx context.Context, userID uuid.UUID) ([]RoomView, error) {
	var rooms []models.ChatRoom
	err := s.db.WithContext(ctx).
		Where("(buyer_id = ? OR seller_id = ?) AND buyer_id != seller_id", userID, userID).
		Preload("Buyer").
		Preload("Seller").
		Preload("Product").
		Preload("Product.Category").
		Preload("LastMessage").
		Preload("LastMessage.Reads").
		Order("updated_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	views := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		view, err := s.formatRoom(ctx, &rooms[i], userID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// RoomMessages marks the room read for the viewer, then returns its
// messages oldest first.
func (s *ChatService) RoomMessages(ctx context.Context, userID, roomID uuid.UUID, params utils.PaginationParams) (*RoomMessagesResult, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(userID) {
		return nil, ErrForbidden
	}

	if err := s.markRoomRead(ctx, roomID, userID); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx).Model(&models.ChatMessage{}).Where("room_id = ?", roomID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var messages []models.ChatMessage
	err = utils.ApplyPagination(db, params).
		Preload("Reads").
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, s.messageView(&messages[i], userID, true))
	}

	return &RoomMessagesResult{
		Messages: views,
		Meta:     utils.CreatePaginationMeta(params, total),
	}, nil
}

// UnreadCount counts the viewer's unread rows across one room.
func (s *ChatService) UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ChatMessageRead{}).
		Joins("JOIN chat_messages ON chat_messages.id = chat_message_reads.message_id").
		Where("chat_messages.room_id = ? AND chat_message_reads.user_id = ? AND chat_message_reads.read_at IS NULL", roomID, userID).
		Count(&count).Error
	return count, err
}

// TotalUnreadCount counts the viewer's unread rows across all rooms.
func (s *ChatService) TotalUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ChatMessageRead{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// appendMessage persists one message with its read fan-out: a pre-marked
// row for the sender and an unread row for the other participant.
func (s *ChatService) appendMessage(tx *gorm.DB, room *models.ChatRoom, senderID uuid.UUID, out outgoing) (*models.ChatMessage, error) {
	message := &models.ChatMessage{
		RoomID:   room.ID,
		SenderID: senderID,
		Type:     out.msgType,
		Content:  out.content,
		Payload:  out.payload,
	}
	if err := tx.Create(message).Error; err != nil {
		return nil, err
	}

	reads := readRows(room, message.ID, senderID, time.Now())
	if err := tx.Create(&reads).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// readRows builds the fan-out for one message: the sender's pre-marked
// row plus an unread row for the other participant. A degenerate room
// whose participants collapse to one user gets the sender row only, the
// read-row key is unique per (message, user).
func readRows(room *models.ChatRoom, messageID, senderID uuid.UUID, now time.Time) []models.ChatMessageRead {
	rows := []models.ChatMessageRead{
		{MessageID: messageID, UserID: senderID, ReadAt: &now},
	}
	if other := room.OtherParticipantID(senderID); other != nil && *other != senderID {
		rows = append(rows, models.ChatMessageRead{MessageID: messageID, UserID: *other})
	}
	return rows
}

// bumpRoom points the room at its newest message and aligns the ordering
// timestamp with the message creation time.
func (s *ChatService) bumpRoom(tx *gorm.DB, room *models.ChatRoom, message *models.ChatMessage) error {
	room.LastMessageID = &message.ID
	room.UpdatedAt = message.CreatedAt
	return tx.Model(&models.ChatRoom{}).
		Where("id = ?", room.ID).
		Updates(map[string]interface{}{
			"last_message_id": message.ID,
			"updated_at":      message.CreatedAt,
		}).Error
}

func (s *ChatService) markRoomRead(ctx context.Context, roomID, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.ChatMessageRead{}).
		Where("user_id = ? AND read_at IS NULL AND message_id IN (?)",
			userID,
			s.db.Model(&models.ChatMessage{}).Select("id").Where("room_id = ?", roomID),
		).
		Update("read_at", time.Now()).Error
}

func (s *ChatService) findRoom(ctx context.Context, buyerID, sellerID, productID uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.db.WithContext(ctx).
		Where("buyer_id = ? AND seller_id = ? AND product_id = ?", buyerID, sellerID, productID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *ChatService) loadRoom(ctx context.Context, roomID uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.db.WithContext(ctx).First(&room, "id = ?", roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *ChatService) roomView(ctx context.Context, viewerID, roomID uuid.UUID) (*RoomView, error) {
	var room models.ChatRoom
	err := s.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Seller").
		Preload("Product").
		Preload("Product.Category").
		Preload("LastMessage").
		Preload("LastMessage.Reads").
		First(&room, "id = ?", roomID).Error
	if err != nil {
		return nil, err
	}
	return s.formatRoom(ctx, &room, viewerID)
}

func (s *ChatService) formatRoom(ctx context.Context, room *models.ChatRoom, viewerID uuid.UUID) (*RoomView, error) {
	unread, err := s.UnreadCount(ctx, room.ID, viewerID)
	if err != nil {
		return nil, err
	}

	view := &RoomView{
		ID:          room.ID,
		UnreadCount: unread,
		UpdatedAt:   room.UpdatedAt,
	}

	if room.Product != nil {
		pv := NewProductView(room.Product)
		view.Product = &pv
	}

	other := room.Seller
	if room.SellerID == viewerID {
		other = room.Buyer
	}
	if other != nil {
		view.Participant = &ParticipantView{
			ID:        other.ID,
			Name:      other.Name,
			AvatarURL: other.AvatarURL,
		}
	}

	if room.LastMessage != nil {
		mv := s.messageView(room.LastMessage, viewerID, true)
		view.LastMessage = &mv
	}
	return view, nil
}

// messageView renders a message for one viewer. For the viewer's own
// messages is_read reports whether the other participant has read it;
// otherwise it reports the viewer's own read state.
func (s *ChatService) messageView(message *models.ChatMessage, viewerID uuid.UUID, withReads bool) MessageView {
	view := MessageView{
		ID:        message.ID,
		RoomID:    message.RoomID,
		SenderID:  message.SenderID,
		Type:      message.Type,
		Content:   message.Content,
		Payload:   message.Payload,
		IsMine:    message.SenderID == viewerID,
		CreatedAt: message.CreatedAt,
	}

	if !withReads {
		return view
	}

	for i := range message.Reads {
		read := &message.Reads[i]
		if view.IsMine == (read.UserID == viewerID) {
			continue
		}
		view.IsRead = read.ReadAt != nil
	}
	return view
}

func (s *ChatService) notify(ctx context.Context, room *models.ChatRoom, senderID uuid.UUID, preview string) {
	if s.notifier == nil {
		return
	}
	other := room.OtherParticipantID(senderID)
	if other == nil {
		return
	}

	var sender models.User
	if err := s.db.WithContext(ctx).First(&sender, "id = ?", senderID).Error; err != nil {
		return
	}
	s.notifier.NotifyNewMessage(ctx, *other, sender.Name, preview)
}
