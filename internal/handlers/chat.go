// internal/handlers/chat.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tokita/tokita-backend/internal/services"
	"github.com/tokita/tokita-backend/internal/utils"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// POST /chats/rooms
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req services.CreateRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}

	room, err := h.chatService.CreateRoom(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ruang obrolan siap.", room)
}

// GET /chats/rooms
func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	rooms, err := h.chatService.ListRooms(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daftar obrolan berhasil dimuat.", rooms)
}

// GET /chats/rooms/:id/messages
func (h *ChatHandler) RoomMessages(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.chatService.RoomMessages(c.Request.Context(), userID, roomID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Pesan berhasil dimuat.", result)
}

// POST /chats/rooms/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), userID, roomID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Pesan terkirim.", message)
}

// GET /chats/rooms/:id/unread-count
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	count, err := h.chatService.UnreadCount(c.Request.Context(), roomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Jumlah pesan belum dibaca berhasil dimuat.", gin.H{
		"unread_count": count,
	})
}

// GET /chats/unread-count
func (h *ChatHandler) TotalUnreadCount(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	count, err := h.chatService.TotalUnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Jumlah pesan belum dibaca berhasil dimuat.", gin.H{
		"unread_count": count,
	})
}
