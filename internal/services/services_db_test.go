// internal/services/services_db_test.go
package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tokita/tokita-backend/internal/database"
	"github.com/tokita/tokita-backend/internal/models"
	"github.com/tokita/tokita-backend/internal/region"
	"github.com/tokita/tokita-backend/internal/utils"
)

// ServiceDBTestSuite exercises the transactional paths that need a real
// Postgres: row locking, rollbacks and unique-index races cannot be
// observed without one. Set TEST_DATABASE_DSN to run it.
type ServiceDBTestSuite struct {
	suite.Suite
	db        *gorm.DB
	addresses *AddressService
	orders    *OrderService
	chat      *ChatService

	buyer   models.User
	seller  models.User
	address models.Address
}

func (suite *ServiceDBTestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		suite.T().Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.RunMigrations(db))
	suite.db = db

	// The resolver points at a closed port: these tests never resolve a
	// village, addresses are seeded with their display fields filled in.
	resolver := region.NewResolver(
		region.NewClient("http://127.0.0.1:1", time.Second),
		region.NewMemoryCache(),
		region.NewWilayahLookup(db),
		logrus.New(),
	)
	suite.addresses = NewAddressService(db, resolver)
	suite.orders = NewOrderService(db, suite.addresses, nil)
	suite.chat = NewChatService(db, nil)
}

func (suite *ServiceDBTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE users, categories, products, addresses,
		orders, order_items, chat_rooms, chat_messages, chat_message_reads,
		favorites, wilayah RESTART IDENTITY CASCADE`).Error
	suite.Require().NoError(err)

	suite.buyer = models.User{Name: "Budi", Email: "budi@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(&suite.buyer).Error)
	suite.seller = models.User{Name: "Siti", Email: "siti@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(&suite.seller).Error)

	line := "Jl. Raya No. 1"
	city := "Kabupaten Garut"
	province := "Jawa Barat"
	suite.address = models.Address{
		UserID:        suite.buyer.ID,
		Label:         "Rumah",
		RecipientName: "Budi",
		PhoneNumber:   "081234567890",
		AddressLine:   &line,
		City:          &city,
		Province:      &province,
		PostalCode:    "44101",
	}
	suite.Require().NoError(suite.db.Create(&suite.address).Error)
}

func (suite *ServiceDBTestSuite) createProduct(name string, price int64, stock int) models.Product {
	product := models.Product{
		SellerID: &suite.seller.ID,
		Name:     name,
		Price:    price,
		Stock:    stock,
	}
	suite.Require().NoError(suite.db.Create(&product).Error)
	return product
}

func (suite *ServiceDBTestSuite) TestCheckoutDecrementsStock() {
	product := suite.createProduct("Beras Premium", 120000, 5)

	order, err := suite.orders.Checkout(context.Background(), suite.buyer.ID, &CheckoutRequest{
		AddressID:           suite.address.ID.String(),
		ShippingCourierName: "JNE",
		ShippingCost:        15000,
		PaymentMethod:       models.PaymentMethodCOD,
		Items:               []CheckoutItem{{ProductID: product.ID.String(), Quantity: 2}},
	})
	suite.Require().NoError(err)
	suite.Equal(int64(2*120000+15000), order.TotalPrice)
	suite.Equal(models.OrderStatusProcessing, order.Status)

	var reloaded models.Product
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", product.ID).Error)
	suite.Equal(3, reloaded.Stock)
}

func (suite *ServiceDBTestSuite) TestCheckoutInsufficientStockRollsBack() {
	first := suite.createProduct("Beras Premium", 120000, 5)
	second := suite.createProduct("Batik Tulis", 250000, 1)

	_, err := suite.orders.Checkout(context.Background(), suite.buyer.ID, &CheckoutRequest{
		AddressID:           suite.address.ID.String(),
		ShippingCourierName: "JNE",
		ShippingCost:        15000,
		PaymentMethod:       models.PaymentMethodCOD,
		Items: []CheckoutItem{
			{ProductID: first.ID.String(), Quantity: 2},
			{ProductID: second.ID.String(), Quantity: 3},
		},
	})

	var vErr *ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.Equal("items", vErr.Field)

	// The first item's decrement must roll back with the failed order.
	var reloaded models.Product
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", first.ID).Error)
	suite.Equal(5, reloaded.Stock)

	var orders, items int64
	suite.Require().NoError(suite.db.Model(&models.Order{}).Count(&orders).Error)
	suite.Require().NoError(suite.db.Model(&models.OrderItem{}).Count(&items).Error)
	suite.Zero(orders)
	suite.Zero(items)
}

func (suite *ServiceDBTestSuite) TestCreateRoomIsIdempotent() {
	product := suite.createProduct("Beras Premium", 120000, 5)
	req := &CreateRoomRequest{
		ProductID: product.ID.String(),
		SellerID:  suite.seller.ID.String(),
	}

	first, err := suite.chat.CreateRoom(context.Background(), suite.buyer.ID, req)
	suite.Require().NoError(err)
	second, err := suite.chat.CreateRoom(context.Background(), suite.buyer.ID, req)
	suite.Require().NoError(err)

	suite.Equal(first.ID, second.ID)

	// The opener pair (product snapshot + greeting) is written once.
	var messages int64
	err = suite.db.Model(&models.ChatMessage{}).Where("room_id = ?", first.ID).Count(&messages).Error
	suite.Require().NoError(err)
	suite.Equal(int64(2), messages)
}

func (suite *ServiceDBTestSuite) TestMessagesFanOutReadRows() {
	product := suite.createProduct("Beras Premium", 120000, 5)

	room, err := suite.chat.CreateRoom(context.Background(), suite.buyer.ID, &CreateRoomRequest{
		ProductID: product.ID.String(),
		SellerID:  suite.seller.ID.String(),
	})
	suite.Require().NoError(err)

	var messages []models.ChatMessage
	err = suite.db.Preload("Reads").Where("room_id = ?", room.ID).Find(&messages).Error
	suite.Require().NoError(err)
	suite.Require().Len(messages, 2)

	for _, message := range messages {
		suite.Require().Len(message.Reads, 2)
		for _, read := range message.Reads {
			if read.UserID == suite.buyer.ID {
				suite.NotNil(read.ReadAt, "sender's copy starts read")
			} else {
				suite.Equal(suite.seller.ID, read.UserID)
				suite.Nil(read.ReadAt, "recipient's copy starts unread")
			}
		}
	}
}

func (suite *ServiceDBTestSuite) TestRoomReadTrackingIsIdempotent() {
	product := suite.createProduct("Beras Premium", 120000, 5)
	ctx := context.Background()

	room, err := suite.chat.CreateRoom(ctx, suite.buyer.ID, &CreateRoomRequest{
		ProductID: product.ID.String(),
		SellerID:  suite.seller.ID.String(),
	})
	suite.Require().NoError(err)

	unread, err := suite.chat.UnreadCount(ctx, room.ID, suite.seller.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), unread)

	params := utils.PaginationParams{Page: 1, PerPage: 50}
	_, err = suite.chat.RoomMessages(ctx, suite.seller.ID, room.ID, params)
	suite.Require().NoError(err)

	unread, err = suite.chat.UnreadCount(ctx, room.ID, suite.seller.ID)
	suite.Require().NoError(err)
	suite.Zero(unread)

	// Opening again changes nothing.
	_, err = suite.chat.RoomMessages(ctx, suite.seller.ID, room.ID, params)
	suite.Require().NoError(err)
	unread, err = suite.chat.UnreadCount(ctx, room.ID, suite.seller.ID)
	suite.Require().NoError(err)
	suite.Zero(unread)

	// Once the seller has opened the room, the buyer's listing shows
	// their greeting as read.
	rooms, err := suite.chat.ListRooms(ctx, suite.buyer.ID)
	suite.Require().NoError(err)
	suite.Require().Len(rooms, 1)
	suite.Require().NotNil(rooms[0].LastMessage)
	suite.True(rooms[0].LastMessage.IsMine)
	suite.True(rooms[0].LastMessage.IsRead)

	// A new message reopens exactly one unread row.
	body := "Masih ada stok?"
	_, err = suite.chat.SendMessage(ctx, suite.buyer.ID, room.ID, &SendMessageRequest{
		Type:    string(models.MessageTypeText),
		Content: &body,
	})
	suite.Require().NoError(err)

	unread, err = suite.chat.UnreadCount(ctx, room.ID, suite.seller.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), unread)
}

func TestServiceDBTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceDBTestSuite))
}
