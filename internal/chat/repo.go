package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// CreateRoomOrGetExisting inserts the room, falling back to a read when the
// (customer_id, product_id) unique index rejects the insert. Two concurrent
// starts for the same pair therefore resolve to one row: the loser of the
// insert race reads the winner's row. The bool reports whether the insert won.
// firstMessage is appended in the same transaction only on a fresh insert.
func (r *Repo) CreateRoomOrGetExisting(ctx context.Context, room *Room, firstMessage *Message) (*Room, bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		firstMessage.RoomID = room.ID
		return tx.Create(firstMessage).Error
	})
	if err == nil {
		return room, true, nil
	}

	existing, getErr := r.GetRoomByCustomerAndProduct(ctx, room.CustomerID, room.ProductID)
	if getErr == nil {
		return existing, false, nil
	}
	if errors.Is(getErr, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	return nil, false, getErr
}

func (r *Repo) GetRoom(ctx context.Context, id uint64) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *Repo) GetRoomByCustomerAndProduct(ctx context.Context, customerID string, productID uint64) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListMessages returns the full log of a room oldest-first. Ordering is by
// sent_at with the row id breaking ties in insertion order.
func (r *Repo) ListMessages(ctx context.Context, roomID uint64) ([]Message, error) {
	var msgs []Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *Repo) ListRoomsByCustomer(ctx context.Context, customerID string) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *Repo) ListRoomsByMerchant(ctx context.Context, merchantID string) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC, id DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
