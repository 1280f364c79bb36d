package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/pagination"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context, p pagination.Params) (*pagination.Page[models.Category], error) {
	page, err := pagination.Find[models.Category](s.db.WithContext(ctx), p, pagination.DefaultOrder)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidParams) {
			return nil, err
		}
		return nil, storageError(ctx, "list categories", err)
	}
	return page, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*dto.CategoryDetail, error) {
	category, err := s.find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	subs := []models.Subcategory{}
	if err := s.db.WithContext(ctx).Where("category_id = ?", id).Order("id ASC").Find(&subs).Error; err != nil {
		return nil, storageError(ctx, "list category subcategories", err)
	}
	return &dto.CategoryDetail{Category: *category, Subcategories: subs}, nil
}

// Create derives the slug from the name. Two categories whose names slugify
// to the same value conflict.
func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	slug, err := makeSlug(req.Name)
	if err != nil {
		return nil, err
	}

	category := models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: sanitize(req.Description),
		Image:       req.Image,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, storageError(ctx, "create category", err)
	}
	return &category, nil
}

// Update applies the fields present in req. The slug keeps the value it was
// created with so existing links stay valid.
func (s *CategoryService) Update(ctx context.Context, id uint, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = s.find(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.Description != nil {
			category.Description = sanitize(req.Description)
		}
		if req.Image != nil {
			category.Image = req.Image
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		if err := tx.Save(category).Error; err != nil {
			return storageError(ctx, "update category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category with its whole subtree.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return storageError(ctx, "delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *CategoryService) find(ctx context.Context, db *gorm.DB, id uint) (*models.Category, error) {
	var category models.Category
	if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storageError(ctx, "find category", err)
	}
	return &category, nil
}
