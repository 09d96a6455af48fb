// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tokita/tokita-backend/internal/services"
	"github.com/tokita/tokita-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
	storage     *services.StorageService
}

func NewUserHandler(userService *services.UserService, storage *services.StorageService) *UserHandler {
	return &UserHandler{userService: userService, storage: storage}
}

// GET /profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profil berhasil dimuat.", user)
}

// PUT /profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profil berhasil diperbarui.", user)
}

// PUT /profile/password
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req services.UpdatePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.userService.UpdatePassword(userID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Kata sandi berhasil diperbarui.", nil)
}

// POST /profile/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		utils.ValidationErrorResponse(c, map[string][]string{
			"avatar": {"Kolom avatar wajib diisi."},
		})
		return
	}
	defer file.Close()

	result, err := h.storage.UploadFile(file, header, h.storage.GetDefaultUploadOptions("avatars"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.userService.UpdateAvatar(userID, result.URL); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Avatar berhasil diunggah.", result)
}

// DELETE /profile
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req services.DeleteAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.userService.DeleteAccount(userID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Akun berhasil dihapus.", nil)
}

// POST /profile/fcm-token
func (h *UserHandler) UpdateFcmToken(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req services.UpdateFcmTokenRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.userService.UpdateFcmToken(userID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Token notifikasi berhasil disimpan.", nil)
}
