package orders

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known order states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID      string      `gorm:"type:varchar(36);index;not null" json:"-"`
	Status          Status      `gorm:"type:varchar(16);index;not null" json:"status"`
	DeliveryAddress string      `gorm:"type:varchar(255);not null" json:"delivery_address"`
	Total           float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem freezes product name and unit price at purchase time.
type OrderItem struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint64  `gorm:"index;not null" json:"-"`
	ProductID   uint64  `gorm:"not null" json:"product_id"`
	ProductName string  `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }
