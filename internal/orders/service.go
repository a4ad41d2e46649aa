package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/cart"
	"github.com/Cyril-dot/billionBackend/internal/catalog"
)

var (
	ErrNotFound          = errors.New("orders: order not found")
	ErrEmptyCart         = errors.New("orders: cart is empty")
	ErrInsufficientStock = errors.New("orders: insufficient stock")
	ErrBadTransition     = errors.New("orders: status transition not allowed")
)

type Service struct {
	db   *gorm.DB
	cart *cart.Service
}

func NewService(db *gorm.DB, cartSvc *cart.Service) *Service {
	return &Service{db: db, cart: cartSvc}
}

// Place creates an order from the customer's current cart, deducts stock and
// clears the cart, all in one transaction.
func (s *Service) Place(ctx context.Context, customerID, deliveryAddress string) (*Order, error) {
	c, err := s.cart.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &Order{
		CustomerID:      customerID,
		Status:          StatusPending,
		DeliveryAddress: deliveryAddress,
		Total:           c.GrandTotal,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range c.Lines {
			res := tx.Model(&catalog.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %d", ErrInsufficientStock, line.ProductID)
			}
			order.Items = append(order.Items, OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
			})
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("customer_id = ?", customerID).Delete(&cart.Item{}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, orderID uint64) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	var out []Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	var out []Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// UpdateStatus applies a merchant-side status change. CANCELLED is terminal,
// and a DELIVERED order may only move to CANCELLED.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint64, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, ErrBadTransition
	}
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return nil, ErrBadTransition
	}
	if o.Status == StatusDelivered && next != StatusCancelled {
		return nil, ErrBadTransition
	}

	if next == StatusCancelled {
		return o, s.cancelTx(ctx, o)
	}

	if err := s.db.WithContext(ctx).Model(o).Update("status", next).Error; err != nil {
		return nil, err
	}
	o.Status = next
	return o, nil
}

// Cancel cancels a customer's own order while it is still PENDING or CONFIRMED.
func (s *Service) Cancel(ctx context.Context, customerID string, orderID uint64) (*Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrNotFound
	}
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return nil, ErrBadTransition
	}
	return o, s.cancelTx(ctx, o)
}

// cancelTx flips the order to CANCELLED and restores product stock.
func (s *Service) cancelTx(ctx context.Context, o *Order) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			err := tx.Model(&catalog.Product{}).
				Where("id = ?", it.ProductID).
				Update("stock", gorm.Expr("stock + ?", it.Quantity)).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(o).Update("status", StatusCancelled).Error
	})
	if err != nil {
		return err
	}
	o.Status = StatusCancelled
	return nil
}
