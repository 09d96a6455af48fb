// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tokita/tokita-backend/internal/events"
	"github.com/tokita/tokita-backend/internal/models"
	"github.com/tokita/tokita-backend/internal/utils"
)

const orderNumberAttempts = 5

type OrderService struct {
	db         *gorm.DB
	addresses  *AddressService
	dispatcher *events.Dispatcher
}

func NewOrderService(db *gorm.DB, addresses *AddressService, dispatcher *events.Dispatcher) *OrderService {
	return &OrderService{db: db, addresses: addresses, dispatcher: dispatcher}
}

type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CheckoutRequest struct {
	AddressID           string         `json:"address_id" validate:"required,uuid"`
	ShippingCourierName string         `json:"shipping_courier_name" validate:"required,max=255"`
	ShippingCost        int64          `json:"shipping_cost" validate:"gte=0"`
	PaymentMethod       string         `json:"payment_method" validate:"required,max=255"`
	Items               []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

type OrderView struct {
	ID              uuid.UUID            `json:"id"`
	OrderNumber     string               `json:"order_number"`
	Status          models.OrderStatus   `json:"status"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	PaymentMethod   string               `json:"payment_method"`
	ShippingCourier string               `json:"shipping_courier_name"`
	ShippingCost    int64                `json:"shipping_cost"`
	TotalPrice      int64                `json:"total_price"`
	Items           []OrderItemView      `json:"items"`
	ShippingAddress *AddressView         `json:"shipping_address"`
	CreatedAt       time.Time            `json:"created_at"`
}

type OrderItemView struct {
	ID       uuid.UUID    `json:"id"`
	Quantity int          `json:"quantity"`
	Price    int64        `json:"price"`
	Subtotal int64        `json:"subtotal"`
	Product  *ProductView `json:"product"`
}

// FormatOrderNumber renders an order number for the given day and random
// suffix, e.g. TOK-20240131-A1B2C3.
func FormatOrderNumber(now time.Time, suffix string) string {
	return fmt.Sprintf("TOK-%s-%s", now.Format("20060102"), suffix)
}

// InitialStatuses derives the starting order and payment status from the
// payment method. Cash on delivery goes straight into processing; anything
// else waits for payment.
func InitialStatuses(paymentMethod string) (models.OrderStatus, models.PaymentStatus) {
	if paymentMethod == models.PaymentMethodCOD {
		return models.OrderStatusProcessing, models.PaymentStatusAwaiting
	}
	return models.OrderStatusAwaitingPayment, models.PaymentStatusAwaiting
}

// Checkout creates an order atomically. Each product row is locked with
// FOR UPDATE before its stock is checked and decremented, so two
// concurrent checkouts of the last unit cannot both succeed. Any failure
// rolls back the whole transaction.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*OrderView, error) {
	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return nil, NewValidationError("address_id", "Alamat tidak valid.")
	}

	var address models.Address
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("address_id", "Alamat tidak ditemukan.")
		}
		return nil, err
	}

	// A concurrent checkout can claim the generated order number between
	// the free-check and the insert; the unique index rejects the loser,
	// so rerun the whole transaction with a fresh number.
	var order models.Order
	err = retryOnDuplicate(orderNumberAttempts, func() error {
		return s.checkoutTx(ctx, userID, &address, req, &order)
	})
	if err != nil {
		return nil, err
	}

	// Post-commit: downstream consumers never affect order durability.
	if s.dispatcher != nil {
		s.dispatcher.Publish(events.OrderCreated{Order: order})
	}

	return s.GetOrder(ctx, userID, order.ID)
}

func (s *OrderService) checkoutTx(ctx context.Context, userID uuid.UUID, address *models.Address, req *CheckoutRequest, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subtotal int64
		orderItems := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				return NewValidationError("items", "Produk tidak valid.")
			}

			var product models.Product
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", productID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewValidationError("items", "Produk tidak ditemukan.")
				}
				return err
			}

			if product.Stock < item.Quantity {
				return NewValidationError("items", fmt.Sprintf("Stok %s tidak mencukupi.", product.Name))
			}

			subtotal += product.Price * int64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})

			err = tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}

		orderNumber, err := s.generateOrderNumber(tx)
		if err != nil {
			return err
		}

		status, paymentStatus := InitialStatuses(req.PaymentMethod)
		*order = models.Order{
			OrderNumber:         orderNumber,
			UserID:              userID,
			AddressID:           address.ID,
			ShippingCourierName: req.ShippingCourierName,
			ShippingCost:        req.ShippingCost,
			TotalPrice:          subtotal + req.ShippingCost,
			PaymentMethod:       req.PaymentMethod,
			PaymentStatus:       paymentStatus,
			Status:              status,
			Items:               orderItems,
		}
		return tx.Create(order).Error
	})
}

// retryOnDuplicate runs fn up to attempts times, retrying only when it
// fails with a unique-constraint violation. Any other error stops the
// retries immediately.
func retryOnDuplicate(attempts int, fn func() error) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logrus.WithField("attempt", attempt+1).Debug("Duplicate key, retrying")
	}
	return err
}

// generateOrderNumber retries random suffixes until one is free. The
// unique index on order_number is the hard guarantee.
func (s *OrderService) generateOrderNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		suffix, err := utils.GenerateRandomString(6)
		if err != nil {
			return "", err
		}
		candidate := FormatOrderNumber(time.Now(), suffix)

		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}

		logrus.WithField("order_number", candidate).Debug("Order number collision, retrying")
	}
	return "", errors.New("could not generate a unique order number")
}

type OrderListResult struct {
	Orders []OrderView          `json:"orders"`
	Meta   utils.PaginationMeta `json:"meta"`
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, params utils.PaginationParams) (*OrderListResult, error) {
	db := s.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	err := utils.ApplyPagination(db, params).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Address").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, s.toOrderView(ctx, &orders[i]))
	}

	return &OrderListResult{
		Orders: views,
		Meta:   utils.CreatePaginationMeta(params, total),
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Address").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := s.toOrderView(ctx, &order)
	return &view, nil
}

func (s *OrderService) toOrderView(ctx context.Context, order *models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for i := range order.Items {
		item := order.Items[i]
		itemView := OrderItemView{
			ID:       item.ID,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: item.Price * int64(item.Quantity),
		}
		if item.Product != nil {
			pv := NewProductView(item.Product)
			itemView.Product = &pv
		}
		items = append(items, itemView)
	}

	view := OrderView{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		PaymentMethod:   order.PaymentMethod,
		ShippingCourier: order.ShippingCourierName,
		ShippingCost:    order.ShippingCost,
		TotalPrice:      order.TotalPrice,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
	if order.Address != nil {
		addressView := s.addresses.FormatForDisplay(ctx, order.Address)
		view.ShippingAddress = &addressView
	}
	return view
}
