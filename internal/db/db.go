package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/cart"
	"github.com/Cyril-dot/billionBackend/internal/catalog"
	"github.com/Cyril-dot/billionBackend/internal/chat"
	"github.com/Cyril-dot/billionBackend/internal/identity"
	"github.com/Cyril-dot/billionBackend/internal/logger"
	"github.com/Cyril-dot/billionBackend/internal/orders"
)

// Connect opens a mysql gorm handle, retrying briefly so the service can start
// alongside its database in compose-style environments.
func Connect(dsn string) (*gorm.DB, error) {
	var (
		gdb *gorm.DB
		err error
	)
	for i := 0; i < 5; i++ {
		gdb, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			return gdb, nil
		}
		logger.Log.Warn("db connect failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

// Migrate creates or updates all tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&identity.Customer{},
		&identity.Merchant{},
		&catalog.Product{},
		&catalog.ProductImage{},
		&cart.Item{},
		&orders.Order{},
		&orders.OrderItem{},
		&chat.Room{},
		&chat.Message{},
	)
}
