package client

import (
	"log"
	"time"

	"fruitables-shop/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitMysqlClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for payment callbacks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		log.Fatal(err)
	}

	return db
}

// Migrate is shared with the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.Category{},
		&model.Merchandise{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	)
}
