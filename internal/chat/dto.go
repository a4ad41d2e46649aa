package chat

import "time"

// RoomView is the response shape for conversation endpoints.
type RoomView struct {
	RoomID        uint64    `json:"room_id"`
	Title         string    `json:"title"`
	ProductID     uint64    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductImage  string    `json:"product_image"`
	ProductPrice  string    `json:"product_price"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	MerchantName  string    `json:"merchant_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// MessageView is the response shape for message endpoints and, verbatim, the
// payload pushed on the live channel.
type MessageView struct {
	MessageID   uint64    `json:"message_id"`
	RoomID      uint64    `json:"room_id"`
	SenderRole  string    `json:"sender_role"`
	SenderName  string    `json:"sender_name"`
	Content     string    `json:"content"`
	ProductCard bool      `json:"product_card"`
	SentAt      time.Time `json:"sent_at"`
}

func viewOfMessage(m *Message) MessageView {
	return MessageView{
		MessageID:   m.ID,
		RoomID:      m.RoomID,
		SenderRole:  m.SenderRole,
		SenderName:  m.SenderName,
		Content:     m.Content,
		ProductCard: m.ProductCard,
		SentAt:      m.SentAt,
	}
}
