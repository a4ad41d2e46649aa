package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("catalog: product not found")
	ErrForbidden = errors.New("catalog: product belongs to another merchant")
)

// Snapshot is the narrow read-only view of a product that the chat layer
// consumes. Price is pre-formatted with two decimals.
type Snapshot struct {
	ID          uint64
	Name        string
	PriceText   string
	Description string
	ImageURL    string
	MerchantID  string
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Brand       string
	Stock       int
	ImageURLs   []string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("catalog: product name is required")
	}
	if in.Price < 0 {
		return errors.New("catalog: price must not be negative")
	}
	if strings.TrimSpace(in.Category) == "" {
		return errors.New("catalog: category is required")
	}
	if in.Stock < 0 {
		return errors.New("catalog: stock must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, merchantID string, in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Brand:       in.Brand,
		Stock:       in.Stock,
		MerchantID:  merchantID,
	}
	for i, u := range in.ImageURLs {
		p.Images = append(p.Images, ProductImage{ImageURL: u, DisplayOrder: i})
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, merchantID string, productID uint64, in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.MerchantID != merchantID {
		return nil, ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":        in.Name,
			"description": in.Description,
			"price":       in.Price,
			"category":    in.Category,
			"brand":       in.Brand,
			"stock":       in.Stock,
		}
		if err := tx.Model(&Product{}).Where("id = ?", productID).Updates(updates).Error; err != nil {
			return err
		}
		if in.ImageURLs != nil {
			if err := tx.Where("product_id = ?", productID).Delete(&ProductImage{}).Error; err != nil {
				return err
			}
			for i, u := range in.ImageURLs {
				img := ProductImage{ProductID: productID, ImageURL: u, DisplayOrder: i}
				if err := tx.Create(&img).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, productID)
}

func (s *Service) Delete(ctx context.Context, merchantID string, productID uint64) error {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return err
	}
	if p.MerchantID != merchantID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Product{}, productID).Error
	})
}

func (s *Service) Get(ctx context.Context, productID uint64) (*Product, error) {
	var p Product
	err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		First(&p, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListFilter narrows List results; zero values mean "no filter".
type ListFilter struct {
	Category string
	Brand    string
	Search   string
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Product, error) {
	q := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Order("created_at DESC")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Search != "" {
		q = q.Where("name LIKE ?", "%"+f.Search+"%")
	}
	var out []Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) ListByMerchant(ctx context.Context, merchantID string) ([]Product, error) {
	var out []Product
	err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Snapshot resolves the product view used when opening a conversation.
func (s *Service) Snapshot(ctx context.Context, productID uint64) (*Snapshot, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ID:          p.ID,
		Name:        p.Name,
		PriceText:   fmt.Sprintf("%.2f", p.Price),
		Description: p.Description,
		ImageURL:    p.PrimaryImageURL(),
		MerchantID:  p.MerchantID,
	}, nil
}
