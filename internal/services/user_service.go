// internal/services/user_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UpdateProfileRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=512"`
}

type UpdatePasswordRequest struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type DeleteAccountRequest struct {
	Confirmation string `json:"confirmation" validate:"required"`
}

type UpdateFcmTokenRequest struct {
	FcmToken string `json:"fcm_token" validate:"required,max=512"`
}

func (s *UserService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("email = ? AND id != ?", req.Email, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, NewValidationError("email", "Email sudah terdaftar.")
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("email", "Email sudah terdaftar.")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdatePassword(userID uuid.UUID, req *UpdatePasswordRequest) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return NewValidationError("current_password", "Kata sandi saat ini salah.")
	}

	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	return s.db.Model(user).Update("password_hash", user.PasswordHash).Error
}

// DeleteAccount soft-deletes the user after an explicit confirmation.
func (s *UserService) DeleteAccount(userID uuid.UUID, req *DeleteAccountRequest) error {
	if req.Confirmation != "DELETE" {
		return NewValidationError("confirmation", "Konfirmasi tidak valid. Ketik DELETE untuk menghapus akun.")
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	return s.db.Delete(user).Error
}

func (s *UserService) UpdateAvatar(userID uuid.UUID, avatarURL string) error {
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", avatarURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) UpdateFcmToken(userID uuid.UUID, req *UpdateFcmTokenRequest) error {
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("fcm_token", req.FcmToken)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
