package identity

import "time"

// Customer is a shopper account. IDs are UUID strings assigned at registration.
type Customer struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FirstName    string    `gorm:"type:varchar(64);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(64);not null" json:"last_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (Customer) TableName() string { return "customers" }

// DisplayName is the denormalized form stored on chat messages.
func (c Customer) DisplayName() string { return c.FirstName + " " + c.LastName }

// Merchant is a shop owner who lists products and answers product inquiries.
type Merchant struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`
	ShopName     string    `gorm:"type:varchar(128)" json:"shop_name"`
	ShopAddress  string    `gorm:"type:varchar(255)" json:"shop_address"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (Merchant) TableName() string { return "merchants" }
