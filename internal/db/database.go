package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clockwave/internal/config"
)

type Client struct {
	DB *gorm.DB
}

func New(cfg *config.Config) *Client {
	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}

	log.Println("✅ Database Connected")

	return &Client{DB: db}
}

// NewMemory opens a throwaway in-memory database, used by tests.
func NewMemory() *Client {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to open in-memory database: %v", err)
	}
	return &Client{DB: db}
}
