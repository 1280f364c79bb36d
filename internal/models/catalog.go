package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Category is the root of the catalog tree. Deleting it removes every
// subcategory, product, image and variation below it.
type Category struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:255;not null;index" json:"name"`
	Slug          string        `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description   *string       `gorm:"type:text" json:"description"`
	Image         *string       `gorm:"size:512" json:"image"`
	IsActive      bool          `gorm:"not null" json:"is_active"`
	Subcategories []Subcategory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Subcategory slugs are unique within their category, so "Shirts" can exist
// under both "Men" and "Women".
type Subcategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"not null;index;uniqueIndex:idx_subcategory_category_slug" json:"category_id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex:idx_subcategory_category_slug" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	Products    []Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	SubcategoryID uint                `gorm:"not null;index" json:"subcategory_id"`
	Name          string              `gorm:"size:255;not null;index" json:"name"`
	Slug          string              `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description   *string             `gorm:"type:text" json:"description"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"discount_price"`
	StockQuantity int                 `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool                `gorm:"not null" json:"is_active"`
	IsFeatured    bool                `gorm:"not null;default:false" json:"is_featured"`
	Weight        *float64            `json:"weight"`
	Width         *float64            `json:"width"`
	Height        *float64            `json:"height"`
	Depth         *float64            `json:"depth"`
	Color         *string             `gorm:"size:50" json:"color"`
	Attributes    datatypes.JSON      `json:"attributes"`
	Images        []ProductImage      `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Variations    []ProductVariation  `gorm:"constraint:OnDelete:CASCADE" json:"variations,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type ProductImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	ImagePath    string    `gorm:"size:512;not null" json:"image_path"`
	AltText      *string   `gorm:"size:255" json:"alt_text"`
	IsPrimary    bool      `gorm:"not null;default:false" json:"is_primary"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProductVariation struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	ProductID     uint                `gorm:"not null;index" json:"product_id"`
	Name          string              `gorm:"size:255;not null" json:"name"`
	SKU           string              `gorm:"column:sku;size:100;not null;uniqueIndex" json:"sku"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"discount_price"`
	StockQuantity int                 `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool                `gorm:"not null" json:"is_active"`
	Size          *string             `gorm:"size:50" json:"size"`
	Color         *string             `gorm:"size:50" json:"color"`
	Material      *string             `gorm:"size:100" json:"material"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
