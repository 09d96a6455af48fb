// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/config"
	"github.com/tokita/tokita-backend/internal/events"
	"github.com/tokita/tokita-backend/internal/models"
)

// NotificationService delivers FCM pushes. Every path is best-effort:
// a user without a token is skipped, a delivery failure is logged and
// dropped.
type NotificationService struct {
	db        *gorm.DB
	endpoint  string
	serverKey string
	client    *http.Client
}

func NewNotificationService(db *gorm.DB, cfg config.FCMConfig) *NotificationService {
	return &NotificationService{
		db:        db,
		endpoint:  cfg.Endpoint,
		serverKey: cfg.ServerKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *NotificationService) Enabled() bool {
	return s.serverKey != ""
}

// HandleOrderCreated is a Dispatcher handler: push a confirmation to the
// buyer once the checkout transaction has committed.
func (s *NotificationService) HandleOrderCreated(event events.OrderCreated) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.pushToUser(ctx, event.Order.UserID,
		"Pesanan Diterima!",
		fmt.Sprintf("Pesanan %s sedang kami proses.", event.Order.OrderNumber),
		map[string]string{
			"type":         "order_created",
			"order_number": event.Order.OrderNumber,
		},
	)
}

func (s *NotificationService) NotifyNewMessage(ctx context.Context, recipientID uuid.UUID, senderName, preview string) {
	if preview == "" {
		preview = "Mengirim sebuah lampiran."
	}
	s.pushToUser(ctx, recipientID, senderName, preview, map[string]string{
		"type": "chat_message",
	})
}

func (s *NotificationService) pushToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if !s.Enabled() {
		return
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Notification target not found")
		return
	}
	if user.FcmToken == nil || *user.FcmToken == "" {
		return
	}

	if err := s.send(ctx, *user.FcmToken, title, body, data); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to deliver push notification")
	}
}

func (s *NotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"to": token,
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
		"data": data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push delivery failed with status %d", resp.StatusCode)
	}
	return nil
}
