package services

import (
	"bytes"
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/pagination"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List pages through products without their images and variations.
func (s *ProductService) List(ctx context.Context, p pagination.Params) (*pagination.Page[models.Product], error) {
	page, err := pagination.Find[models.Product](s.db.WithContext(ctx), p, pagination.DefaultOrder)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidParams) {
			return nil, err
		}
		return nil, storageError(ctx, "list products", err)
	}
	return page, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.load(ctx, s.db, id)
}

// Create stores the product with its images and variations in one
// transaction.
func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error) {
	slug, err := makeSlug(req.Name)
	if err != nil {
		return nil, err
	}
	if err := checkPrice(req.Price, req.DiscountPrice); err != nil {
		return nil, err
	}
	variations, err := buildVariations(req.Variations)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		SubcategoryID: req.SubcategoryID,
		Name:          req.Name,
		Slug:          slug,
		Description:   sanitize(req.Description),
		Price:         req.Price,
		DiscountPrice: nullDecimal(req.DiscountPrice),
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive == nil || *req.IsActive,
		IsFeatured:    req.IsFeatured,
		Weight:        req.Weight,
		Width:         req.Width,
		Height:        req.Height,
		Depth:         req.Depth,
		Color:         req.Color,
		Attributes:    jsonValue(req.Attributes),
	}

	var created *models.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := subcategoryExists(ctx, tx, req.SubcategoryID); err != nil {
			return err
		}
		if err := slugFree(ctx, tx, slug); err != nil {
			return err
		}
		if err := skusFree(ctx, tx, variations, 0); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&product).Error; err != nil {
			return productWriteError(ctx, "create product", err)
		}
		if err := insertImages(ctx, tx, product.ID, buildImages(req.Images)); err != nil {
			return err
		}
		if err := insertVariations(ctx, tx, product.ID, variations); err != nil {
			return err
		}

		created, err = s.load(ctx, tx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the fields present in req. A present image or variation list
// replaces the stored one.
func (s *ProductService) Update(ctx context.Context, id uint, req *dto.UpdateProductRequest) (*models.Product, error) {
	var updated *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return storageError(ctx, "find product", err)
		}

		if req.SubcategoryID != nil && *req.SubcategoryID != product.SubcategoryID {
			if err := subcategoryExists(ctx, tx, *req.SubcategoryID); err != nil {
				return err
			}
			product.SubcategoryID = *req.SubcategoryID
		}
		applyProductFields(&product, req)

		var discount *decimal.Decimal
		if product.DiscountPrice.Valid {
			discount = &product.DiscountPrice.Decimal
		}
		if err := checkPrice(product.Price, discount); err != nil {
			return err
		}

		if err := tx.Omit("Images", "Variations").Save(&product).Error; err != nil {
			return productWriteError(ctx, "update product", err)
		}

		if req.Images != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
				return storageError(ctx, "clear product images", err)
			}
			if err := insertImages(ctx, tx, id, buildImages(req.Images)); err != nil {
				return err
			}
		}

		if req.Variations != nil {
			variations, err := buildVariations(req.Variations)
			if err != nil {
				return err
			}
			if err := skusFree(ctx, tx, variations, id); err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariation{}).Error; err != nil {
				return storageError(ctx, "clear product variations", err)
			}
			if err := insertVariations(ctx, tx, id, variations); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return storageError(ctx, "delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *ProductService) load(ctx context.Context, db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	err := db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC, id ASC") }).
		Preload("Variations", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, storageError(ctx, "load product", err)
	}
	return &product, nil
}

func applyProductFields(p *models.Product, req *dto.UpdateProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = sanitize(req.Description)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		p.DiscountPrice = nullDecimal(req.DiscountPrice)
	}
	if req.StockQuantity != nil {
		p.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if req.Weight != nil {
		p.Weight = req.Weight
	}
	if req.Width != nil {
		p.Width = req.Width
	}
	if req.Height != nil {
		p.Height = req.Height
	}
	if req.Depth != nil {
		p.Depth = req.Depth
	}
	if req.Color != nil {
		p.Color = req.Color
	}
	if attrs := jsonValue(req.Attributes); attrs != nil {
		p.Attributes = attrs
	}
}

// jsonValue returns nil for a missing or JSON null document.
// datatypes.JSON decodes null into the literal bytes "null".
func jsonValue(doc datatypes.JSON) datatypes.JSON {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return doc
}

func insertImages(ctx context.Context, tx *gorm.DB, productID uint, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ProductID = productID
	}
	if err := tx.Create(&images).Error; err != nil {
		return storageError(ctx, "create product images", err)
	}
	return nil
}

// insertVariations writes variations for productID. A unique violation here
// is a SKU taken by a write that committed after skusFree ran.
func insertVariations(ctx context.Context, tx *gorm.DB, productID uint, variations []models.ProductVariation) error {
	if len(variations) == 0 {
		return nil
	}
	for i := range variations {
		variations[i].ProductID = productID
	}
	if err := tx.Create(&variations).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSKUTaken
		}
		return storageError(ctx, "create product variations", err)
	}
	return nil
}

func buildImages(in []dto.ProductImageInput) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(in))
	for _, img := range in {
		images = append(images, models.ProductImage{
			ImagePath:    img.ImagePath,
			AltText:      img.AltText,
			IsPrimary:    img.IsPrimary,
			DisplayOrder: img.DisplayOrder,
		})
	}
	return images
}

// buildVariations converts and price-checks variations. SKUs repeated inside
// one request conflict just like SKUs already stored.
func buildVariations(in []dto.ProductVariationInput) ([]models.ProductVariation, error) {
	seen := make(map[string]struct{}, len(in))
	variations := make([]models.ProductVariation, 0, len(in))
	for _, v := range in {
		if _, dup := seen[v.SKU]; dup {
			return nil, ErrSKUTaken
		}
		seen[v.SKU] = struct{}{}

		if err := checkPrice(v.Price, v.DiscountPrice); err != nil {
			return nil, err
		}
		variations = append(variations, models.ProductVariation{
			Name:          v.Name,
			SKU:           v.SKU,
			Price:         v.Price,
			DiscountPrice: nullDecimal(v.DiscountPrice),
			StockQuantity: v.StockQuantity,
			IsActive:      v.IsActive == nil || *v.IsActive,
			Size:          v.Size,
			Color:         v.Color,
			Material:      v.Material,
		})
	}
	return variations, nil
}

func checkPrice(price decimal.Decimal, discount *decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if discount != nil && (discount.IsNegative() || discount.GreaterThan(price)) {
		return ErrInvalidPrice
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func subcategoryExists(ctx context.Context, db *gorm.DB, id uint) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Subcategory{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return storageError(ctx, "check subcategory", err)
	}
	if n == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}

func slugFree(ctx context.Context, db *gorm.DB, slug string) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return storageError(ctx, "check product slug", err)
	}
	if n > 0 {
		return ErrSlugTaken
	}
	return nil
}

// skusFree checks the variations against SKUs stored for other products.
// owner is the product whose variations are being replaced, or 0.
func skusFree(ctx context.Context, db *gorm.DB, variations []models.ProductVariation, owner uint) error {
	if len(variations) == 0 {
		return nil
	}
	skus := make([]string, 0, len(variations))
	for _, v := range variations {
		skus = append(skus, v.SKU)
	}

	var n int64
	q := db.WithContext(ctx).Model(&models.ProductVariation{}).Where("sku IN ?", skus)
	if owner != 0 {
		q = q.Where("product_id <> ?", owner)
	}
	if err := q.Count(&n).Error; err != nil {
		return storageError(ctx, "check variation skus", err)
	}
	if n > 0 {
		return ErrSKUTaken
	}
	return nil
}

// productWriteError maps constraint violations on the product row that
// slipped past the checks above, typically a concurrent write of the same
// slug.
func productWriteError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrSlugTaken
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrSubcategoryNotFound
	default:
		return storageError(ctx, op, err)
	}
}
