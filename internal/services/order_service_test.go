// internal/services/order_service_test.go
package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
)

func TestFormatOrderNumber(t *testing.T) {
	now := time.Date(2024, 1, 31, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "TOK-20240131-A1B2C3", FormatOrderNumber(now, "A1B2C3"))
}

func TestFormatOrderNumberShape(t *testing.T) {
	pattern := regexp.MustCompile(`^TOK-\d{8}-[A-Z0-9]{6}$`)
	assert.Regexp(t, pattern, FormatOrderNumber(time.Now(), "XY12AB"))
}

func TestInitialStatusesCOD(t *testing.T) {
	status, payment := InitialStatuses(models.PaymentMethodCOD)
	assert.Equal(t, models.OrderStatusProcessing, status)
	assert.Equal(t, models.PaymentStatusAwaiting, payment)
}

func TestInitialStatusesTransfer(t *testing.T) {
	status, payment := InitialStatuses("bank_transfer")
	assert.Equal(t, models.OrderStatusAwaitingPayment, status)
	assert.Equal(t, models.PaymentStatusAwaiting, payment)
}

func TestRetryOnDuplicateRecovers(t *testing.T) {
	calls := 0
	err := retryOnDuplicate(orderNumberAttempts, func() error {
		calls++
		if calls == 1 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls, "a duplicate key reruns the operation once more")
}

func TestRetryOnDuplicateExhaustsAttempts(t *testing.T) {
	calls := 0
	err := retryOnDuplicate(orderNumberAttempts, func() error {
		calls++
		return gorm.ErrDuplicatedKey
	})

	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, orderNumberAttempts, calls)
}

func TestRetryOnDuplicateStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("stock check failed")
	calls := 0
	err := retryOnDuplicate(orderNumberAttempts, func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "only duplicate-key failures are retried")
}
