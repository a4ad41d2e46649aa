package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/logger"
)

// Service owns conversation state: room creation, the append-only message log
// and the read paths. Pushing and notifying live in the Dispatcher; nothing
// here has delivery side effects.
type Service struct {
	repo      *Repo
	catalog   CatalogLookup
	directory Directory
}

func NewService(repo *Repo, cat CatalogLookup, dir Directory) *Service {
	return &Service{repo: repo, catalog: cat, directory: dir}
}

// productCardContent packs the opening message of a room. The frontend parses
// the PRODUCT_CARD:: prefix to render a product card instead of a text bubble.
// Format: PRODUCT_CARD::name::price::description::imageUrl
func productCardContent(p ProductSnapshot) string {
	desc := p.Description
	if desc == "" {
		desc = "No description"
	}
	return fmt.Sprintf("PRODUCT_CARD::%s::%s::%s::%s", p.Name, p.PriceText, desc, p.ImageURL)
}

// StartRoom opens (or returns) the conversation between the customer and the
// product's merchant. A second start for the same (customer, product) pair
// returns the existing room unchanged: no error, no second product card.
func (s *Service) StartRoom(ctx context.Context, customerID string, productID uint64) (*RoomView, error) {
	product, err := s.catalog.ProductSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	customer, err := s.directory.Customer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	room := &Room{
		Title:      product.Name,
		ProductID:  product.ID,
		CustomerID: customerID,
		MerchantID: product.MerchantID,
	}
	card := &Message{
		SenderRole:  RoleCustomer,
		SenderID:    customerID,
		SenderName:  customer.Name,
		Content:     productCardContent(product),
		ProductCard: true,
		SentAt:      time.Now(),
	}

	room, created, err := s.repo.CreateRoomOrGetExisting(ctx, room, card)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Log.Info("chat room created",
			zap.Uint64("room_id", room.ID),
			zap.Uint64("product_id", product.ID),
			zap.String("customer_id", customerID))
	}

	merchant, err := s.directory.Merchant(ctx, room.MerchantID)
	if err != nil {
		return nil, err
	}
	return &RoomView{
		RoomID:        room.ID,
		Title:         room.Title,
		ProductID:     room.ProductID,
		ProductName:   product.Name,
		ProductImage:  product.ImageURL,
		ProductPrice:  "$" + product.PriceText,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		MerchantName:  merchant.Name,
		CreatedAt:     room.CreatedAt,
	}, nil
}

// AppendMessage validates and persists one message. Customer senders must own
// the room and merchant senders must be the room's merchant; the sender's
// display name is denormalized onto the row at send time.
func (s *Service) AppendMessage(ctx context.Context, roomID uint64, senderRole, senderID, content string) (*Message, error) {
	msg, _, err := s.append(ctx, roomID, senderRole, senderID, content)
	return msg, err
}

func (s *Service) append(ctx context.Context, roomID uint64, senderRole, senderID, content string) (*Message, *Room, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, ErrEmptyContent
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	var sender Party
	switch senderRole {
	case RoleCustomer:
		if room.CustomerID != senderID {
			return nil, nil, ErrForbidden
		}
		sender, err = s.directory.Customer(ctx, senderID)
	case RoleMerchant:
		if room.MerchantID != senderID {
			return nil, nil, ErrForbidden
		}
		sender, err = s.directory.Merchant(ctx, senderID)
	default:
		return nil, nil, ErrForbidden
	}
	if err != nil {
		return nil, nil, err
	}

	msg := &Message{
		RoomID:      room.ID,
		SenderRole:  senderRole,
		SenderID:    senderID,
		SenderName:  sender.Name,
		Content:     content,
		ProductCard: false,
		SentAt:      time.Now(),
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, nil, err
	}
	return msg, room, nil
}

// EnsureMember verifies that the party is one of the room's two sides, for
// gating live-channel subscriptions.
func (s *Service) EnsureMember(ctx context.Context, roomID uint64, role, partyID string) error {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	switch role {
	case RoleCustomer:
		if room.CustomerID != partyID {
			return ErrForbidden
		}
	case RoleMerchant:
		if room.MerchantID != partyID {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	return nil
}

// History returns the room's full log oldest-first.
func (s *Service) History(ctx context.Context, roomID uint64) ([]MessageView, error) {
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}
	out := make([]MessageView, 0, len(msgs))
	for i := range msgs {
		out = append(out, viewOfMessage(&msgs[i]))
	}
	return out, nil
}

// RoomsForCustomer returns the customer's conversations newest-first.
func (s *Service) RoomsForCustomer(ctx context.Context, customerID string) ([]RoomView, error) {
	rooms, err := s.repo.ListRoomsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.roomViews(ctx, rooms)
}

// RoomsForMerchant returns the merchant's conversations newest-first.
func (s *Service) RoomsForMerchant(ctx context.Context, merchantID string) ([]RoomView, error) {
	rooms, err := s.repo.ListRoomsByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	return s.roomViews(ctx, rooms)
}

func (s *Service) roomViews(ctx context.Context, rooms []Room) ([]RoomView, error) {
	out := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		v, err := s.roomView(ctx, &rooms[i])
		if err != nil {
			// a dangling reference must not hide the rest of the inbox
			logger.Log.Warn("skipping room with unresolved references",
				zap.Uint64("room_id", rooms[i].ID), zap.Error(err))
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *Service) roomView(ctx context.Context, room *Room) (*RoomView, error) {
	product, err := s.catalog.ProductSnapshot(ctx, room.ProductID)
	if err != nil {
		return nil, err
	}
	customer, err := s.directory.Customer(ctx, room.CustomerID)
	if err != nil {
		return nil, err
	}
	merchant, err := s.directory.Merchant(ctx, room.MerchantID)
	if err != nil {
		return nil, err
	}
	return &RoomView{
		RoomID:        room.ID,
		Title:         room.Title,
		ProductID:     room.ProductID,
		ProductName:   product.Name,
		ProductImage:  product.ImageURL,
		ProductPrice:  "$" + product.PriceText,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		MerchantName:  merchant.Name,
		CreatedAt:     room.CreatedAt,
	}, nil
}
