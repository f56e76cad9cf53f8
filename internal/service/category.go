package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/types"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List returns active categories, alphabetically.
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, actor types.Identity, req *types.CreateCategoryRequest) (*models.Category, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: managing categories requires the admin role", ErrForbidden)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	var existing models.Category
	if err := s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrValidation, req.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	category := models.Category{
		Name:          req.Name,
		Description:   req.Description,
		Department:    req.Department,
		PriorityLevel: req.PriorityLevel,
		Active:        true,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, actor types.Identity, id uuid.UUID, req *types.UpdateCategoryRequest) (*models.Category, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: managing categories requires the admin role", ErrForbidden)
	}

	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.PriorityLevel != "" {
		updates["priority_level"] = req.PriorityLevel
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor types.Identity, id uuid.UUID) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: managing categories requires the admin role", ErrForbidden)
	}
	result := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
