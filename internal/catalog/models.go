package catalog

import "time"

type Product struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string         `gorm:"type:varchar(64);index;not null" json:"category"`
	Brand       string         `gorm:"type:varchar(64);index" json:"brand"`
	Stock       int            `gorm:"not null" json:"stock"`
	MerchantID  string         `gorm:"type:varchar(36);index;not null" json:"merchant_id"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// PrimaryImageURL returns the cover image (display order 0), or "" when the
// product has no images. Images are loaded ordered by display_order.
func (p Product) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].ImageURL
}

type ProductImage struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    uint64 `gorm:"index;not null" json:"-"`
	ImageURL     string `gorm:"type:varchar(512);not null" json:"image_url"`
	DisplayOrder int    `gorm:"not null" json:"display_order"`
}

func (ProductImage) TableName() string { return "product_images" }
