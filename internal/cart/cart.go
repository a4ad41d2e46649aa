package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/catalog"
)

var (
	ErrItemNotFound    = errors.New("cart: item not found")
	ErrProductNotFound = errors.New("cart: product not found")
	ErrBadQuantity     = errors.New("cart: quantity must be positive")
)

// Item is one product line in a customer's cart. A (customer, product) pair
// appears at most once; adding again merges quantities.
type Item struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID string    `gorm:"type:varchar(36);not null;index:idx_cart_customer_product,unique,priority:1" json:"-"`
	ProductID  uint64    `gorm:"not null;index:idx_cart_customer_product,unique,priority:2" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (Item) TableName() string { return "cart_items" }

type Line struct {
	ItemID       uint64  `json:"item_id"`
	ProductID    uint64  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	LineTotal    float64 `json:"line_total"`
}

type Cart struct {
	Lines      []Line  `json:"items"`
	ItemCount  int     `json:"item_count"`
	GrandTotal float64 `json:"grand_total"`
}

type Service struct {
	db      *gorm.DB
	catalog *catalog.Service
}

func NewService(db *gorm.DB, cat *catalog.Service) *Service {
	return &Service{db: db, catalog: cat}
}

func (s *Service) Add(ctx context.Context, customerID string, productID uint64, qty int) (*Cart, error) {
	if qty <= 0 {
		return nil, ErrBadQuantity
	}
	if _, err := s.catalog.Get(ctx, productID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Item
		err := tx.Where("customer_id = ? AND product_id = ?", customerID, productID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Update("quantity", existing.Quantity+qty).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&Item{CustomerID: customerID, ProductID: productID, Quantity: qty}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, customerID)
}

// UpdateQuantity sets the quantity of a cart item; zero removes it.
func (s *Service) UpdateQuantity(ctx context.Context, customerID string, itemID uint64, qty int) (*Cart, error) {
	if qty < 0 {
		return nil, ErrBadQuantity
	}
	var item Item
	err := s.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", itemID, customerID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if qty == 0 {
		if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
			return nil, err
		}
	} else if err := s.db.WithContext(ctx).Model(&item).Update("quantity", qty).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, customerID)
}

func (s *Service) Remove(ctx context.Context, customerID string, itemID uint64) (*Cart, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", itemID, customerID).
		Delete(&Item{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return s.Get(ctx, customerID)
}

func (s *Service) Clear(ctx context.Context, customerID string) error {
	return s.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&Item{}).Error
}

func (s *Service) Count(ctx context.Context, customerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Item{}).
		Where("customer_id = ?", customerID).
		Count(&n).Error
	return n, err
}

func (s *Service) Get(ctx context.Context, customerID string) (*Cart, error) {
	var items []Item
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	out := &Cart{Lines: make([]Line, 0, len(items))}
	for _, it := range items {
		p, err := s.catalog.Get(ctx, it.ProductID)
		if err != nil {
			// product removed after it was carted: skip the stale line
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, err
		}
		lineTotal := p.Price * float64(it.Quantity)
		out.Lines = append(out.Lines, Line{
			ItemID:       it.ID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.PrimaryImageURL(),
			UnitPrice:    p.Price,
			Quantity:     it.Quantity,
			LineTotal:    lineTotal,
		})
		out.ItemCount += it.Quantity
		out.GrandTotal += lineTotal
	}
	return out, nil
}
