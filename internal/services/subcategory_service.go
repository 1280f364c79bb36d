package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/pagination"
)

type SubcategoryService struct {
	db *gorm.DB
}

func NewSubcategoryService(db *gorm.DB) *SubcategoryService {
	return &SubcategoryService{db: db}
}

func (s *SubcategoryService) List(ctx context.Context, p pagination.Params) (*pagination.Page[models.Subcategory], error) {
	page, err := pagination.Find[models.Subcategory](s.db.WithContext(ctx), p, pagination.DefaultOrder)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidParams) {
			return nil, err
		}
		return nil, storageError(ctx, "list subcategories", err)
	}
	return page, nil
}

// Get returns the subcategory together with its parent and its products.
func (s *SubcategoryService) Get(ctx context.Context, id uint) (*dto.SubcategoryDetail, error) {
	sub, err := findSubcategory(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	var parent models.Category
	if err := s.db.WithContext(ctx).First(&parent, sub.CategoryID).Error; err != nil {
		return nil, storageError(ctx, "find parent category", err)
	}

	products := []models.Product{}
	if err := s.db.WithContext(ctx).Where("subcategory_id = ?", id).Order("id ASC").Find(&products).Error; err != nil {
		return nil, storageError(ctx, "list subcategory products", err)
	}

	return &dto.SubcategoryDetail{Subcategory: *sub, Category: parent, Products: products}, nil
}

func (s *SubcategoryService) Create(ctx context.Context, req *dto.CreateSubcategoryRequest) (*models.Subcategory, error) {
	slug, err := makeSlug(req.Name)
	if err != nil {
		return nil, err
	}

	sub := models.Subcategory{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        slug,
		Description: sanitize(req.Description),
		IsActive:    req.IsActive == nil || *req.IsActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := categoryExists(ctx, tx, req.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(&sub).Error; err != nil {
			return subcategoryWriteError(ctx, "create subcategory", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update applies the fields present in req. Moving to another category
// requires that category to exist.
func (s *SubcategoryService) Update(ctx context.Context, id uint, req *dto.UpdateSubcategoryRequest) (*models.Subcategory, error) {
	var sub *models.Subcategory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = findSubcategory(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.CategoryID != nil && *req.CategoryID != sub.CategoryID {
			if err := categoryExists(ctx, tx, *req.CategoryID); err != nil {
				return err
			}
			sub.CategoryID = *req.CategoryID
		}
		if req.Name != nil {
			sub.Name = *req.Name
		}
		if req.Description != nil {
			sub.Description = sanitize(req.Description)
		}
		if req.IsActive != nil {
			sub.IsActive = *req.IsActive
		}

		if err := tx.Save(sub).Error; err != nil {
			return subcategoryWriteError(ctx, "update subcategory", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubcategoryService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Subcategory{}, id)
	if result.Error != nil {
		return storageError(ctx, "delete subcategory", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}

func findSubcategory(ctx context.Context, db *gorm.DB, id uint) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := db.WithContext(ctx).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, storageError(ctx, "find subcategory", err)
	}
	return &sub, nil
}

func categoryExists(ctx context.Context, db *gorm.DB, id uint) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return storageError(ctx, "check category", err)
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// subcategoryWriteError maps constraint violations. A foreign key failure
// means the parent vanished between the check and the write.
func subcategoryWriteError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrSlugTaken
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrCategoryNotFound
	default:
		return storageError(ctx, op, err)
	}
}
