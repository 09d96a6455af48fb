// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tokita/tokita-backend/internal/config"
	"github.com/tokita/tokita-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error

	logLevel := logger.Info
	if cfg.LogLevel == "silent" {
		logLevel = logger.Silent
	}

	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey; the chat-room dedup race depends on it.
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.ChatMessageRead{},
		&models.Favorite{},
		&models.Wilayah{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",

		// Chat indexes
		"CREATE INDEX IF NOT EXISTS idx_chat_rooms_updated ON chat_rooms(updated_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_chat_messages_room_created ON chat_messages(room_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_chat_message_reads_unread ON chat_message_reads(user_id) WHERE read_at IS NULL",

		// One default address per user, storage-enforced
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default ON addresses(user_id) WHERE is_default AND deleted_at IS NULL",

		// Product search
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	type seedProduct struct {
		Name        string
		Description string
		Price       int64
		Stock       int
		Image       string
	}

	catalog := map[string]struct {
		Image    string
		Products []seedProduct
	}{
		"Sembako": {
			Image: "categories/sembako.png",
			Products: []seedProduct{
				{"Beras Premium", "Beras kualitas premium untuk kebutuhan rumah tangga.", 120000, 50, "products/beras.png"},
				{"Minyak Goreng Sunflower", "Minyak goreng sehat dengan kandungan lemak tak jenuh.", 45000, 80, "products/minyak.png"},
			},
		},
		"Kerajinan": {
			Image: "categories/kerajinan.png",
			Products: []seedProduct{
				{"Tas Kulit Handmade", "Tas kulit asli buatan perajin lokal.", 350000, 20, "products/tas.png"},
				{"Batik Tulis Eksklusif", "Kain batik tulis dengan motif klasik.", 500000, 15, "products/batik.png"},
			},
		},
		"Pakaian": {
			Image: "categories/pakaian.png",
			Products: []seedProduct{
				{"Kemeja Linen Pria", "Kemeja linen nyaman untuk kegiatan sehari-hari.", 250000, 35, "products/kemeja.png"},
			},
		},
		"Elektronik": {
			Image: "categories/elektronik.png",
			Products: []seedProduct{
				{"Earphone Nirkabel", "Earphone nirkabel dengan kualitas suara jernih.", 750000, 40, "products/earphone.png"},
			},
		},
	}

	for name, entry := range catalog {
		image := entry.Image
		category := models.Category{Name: name, ImageKey: &image}

		if err := db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}

		for _, p := range entry.Products {
			var count int64
			db.Model(&models.Product{}).Where("name = ?", p.Name).Count(&count)
			if count > 0 {
				continue
			}

			product := models.Product{
				CategoryID:  &category.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Stock:       p.Stock,
				Images:      []string{p.Image},
			}
			if err := db.Create(&product).Error; err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
