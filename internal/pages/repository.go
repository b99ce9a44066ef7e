package pages

import (
	"context"

	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/pkg/db/models"
)

// Repository defines read operations for static content pages.
type Repository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Page, error)
	List(ctx context.Context) ([]models.Page, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pages repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *repository) List(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	err := r.db.WithContext(ctx).
		Order("sorting ASC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}
