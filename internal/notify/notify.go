package notify

import "context"

// Notification is the out-of-band notice sent to the party that did not write
// the message. Delivery is best-effort and at-least-once: one job is submitted
// for every persisted message, whether or not the recipient is live-subscribed.
type Notification struct {
	JobID       string `json:"job_id"`
	ToEmail     string `json:"to_email"`
	ToName      string `json:"to_name"`
	FromName    string `json:"from_name"`
	ProductName string `json:"product_name"`
	Content     string `json:"content"`
	RoomID      uint64 `json:"room_id"`
	// ToRole distinguishes the merchant-alert and customer-reply templates.
	ToRole string `json:"to_role"`
}

// Sink accepts notification jobs. Submissions are fire-and-forget from the
// dispatcher's point of view; errors are logged by the caller, never surfaced
// to the sender.
type Sink interface {
	Submit(ctx context.Context, n Notification) error
}
