package chat

import "time"

// Sender roles stored on messages.
const (
	RoleCustomer = "customer"
	RoleMerchant = "merchant"
)

// Room is a persistent conversation between one customer and the merchant of
// one product. The unique index on (customer_id, product_id) is what makes
// creation idempotent across concurrent starts and service instances.
type Room struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	ProductID  uint64    `gorm:"not null;index:uniq_room_customer_product,unique,priority:2" json:"product_id"`
	CustomerID string    `gorm:"type:varchar(36);not null;index:uniq_room_customer_product,unique,priority:1" json:"customer_id"`
	MerchantID string    `gorm:"type:varchar(36);index;not null" json:"merchant_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Room) TableName() string { return "chat_rooms" }

// Message is one append-only log entry of a room. The first message of every
// room is the synthesized product card (ProductCard=true, sender = customer).
type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID      uint64    `gorm:"index;not null" json:"room_id"`
	SenderRole  string    `gorm:"type:varchar(16);not null" json:"sender_role"`
	SenderID    string    `gorm:"type:varchar(36);not null" json:"sender_id"`
	SenderName  string    `gorm:"type:varchar(128);not null" json:"sender_name"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ProductCard bool      `gorm:"not null" json:"product_card"`
	SentAt      time.Time `gorm:"index;not null" json:"sent_at"`
}

func (Message) TableName() string { return "chat_messages" }
