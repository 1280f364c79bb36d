package dto

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
)

// Update requests use pointer fields: a nil field (absent or JSON null) leaves
// the stored value untouched.

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,max=512"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,max=512"`
	IsActive    *bool   `json:"is_active"`
}

type CategoryDetail struct {
	models.Category
	Subcategories []models.Subcategory `json:"subcategories"`
}

type CreateSubcategoryRequest struct {
	CategoryID  uint    `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateSubcategoryRequest struct {
	CategoryID  *uint   `json:"category_id" validate:"omitempty,min=1"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type SubcategoryDetail struct {
	models.Subcategory
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

type ProductImageInput struct {
	ImagePath    string  `json:"image_path" validate:"required,max=512"`
	AltText      *string `json:"alt_text" validate:"omitempty,max=255"`
	IsPrimary    bool    `json:"is_primary"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
}

type ProductVariationInput struct {
	Name          string           `json:"name" validate:"required,max=255"`
	SKU           string           `json:"sku" validate:"required,max=100"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	IsActive      *bool            `json:"is_active"`
	Size          *string          `json:"size" validate:"omitempty,max=50"`
	Color         *string          `json:"color" validate:"omitempty,max=50"`
	Material      *string          `json:"material" validate:"omitempty,max=100"`
}

type CreateProductRequest struct {
	SubcategoryID uint                    `json:"subcategory_id" validate:"required"`
	Name          string                  `json:"name" validate:"required,max=255"`
	Description   *string                 `json:"description"`
	Price         decimal.Decimal         `json:"price"`
	DiscountPrice *decimal.Decimal        `json:"discount_price"`
	StockQuantity int                     `json:"stock_quantity" validate:"gte=0"`
	IsActive      *bool                   `json:"is_active"`
	IsFeatured    bool                    `json:"is_featured"`
	Weight        *float64                `json:"weight" validate:"omitempty,gte=0"`
	Width         *float64                `json:"width" validate:"omitempty,gte=0"`
	Height        *float64                `json:"height" validate:"omitempty,gte=0"`
	Depth         *float64                `json:"depth" validate:"omitempty,gte=0"`
	Color         *string                 `json:"color" validate:"omitempty,max=50"`
	Attributes    datatypes.JSON          `json:"attributes"`
	Images        []ProductImageInput     `json:"images" validate:"dive"`
	Variations    []ProductVariationInput `json:"variations" validate:"dive"`
}

// UpdateProductRequest replaces the image or variation set when the
// corresponding list is present, including an empty list.
type UpdateProductRequest struct {
	SubcategoryID *uint                   `json:"subcategory_id" validate:"omitempty,min=1"`
	Name          *string                 `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string                 `json:"description"`
	Price         *decimal.Decimal        `json:"price"`
	DiscountPrice *decimal.Decimal        `json:"discount_price"`
	StockQuantity *int                    `json:"stock_quantity" validate:"omitempty,gte=0"`
	IsActive      *bool                   `json:"is_active"`
	IsFeatured    *bool                   `json:"is_featured"`
	Weight        *float64                `json:"weight" validate:"omitempty,gte=0"`
	Width         *float64                `json:"width" validate:"omitempty,gte=0"`
	Height        *float64                `json:"height" validate:"omitempty,gte=0"`
	Depth         *float64                `json:"depth" validate:"omitempty,gte=0"`
	Color         *string                 `json:"color" validate:"omitempty,max=50"`
	Attributes    datatypes.JSON          `json:"attributes"`
	Images        []ProductImageInput     `json:"images" validate:"omitempty,dive"`
	Variations    []ProductVariationInput `json:"variations" validate:"omitempty,dive"`
}
