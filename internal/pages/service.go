package pages

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tuanleanh/shopline-backend/pkg/db/models"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
)

// PageDTO is the static page payload returned to clients.
type PageDTO struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Sorting int    `json:"sorting"`
}

// Service exposes static page reads.
type Service interface {
	GetPage(ctx context.Context, slug string) (*PageDTO, error)
	ListPages(ctx context.Context) ([]PageDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a pages service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pages repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetPage(ctx context.Context, slug string) (*PageDTO, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "page slug is required")
	}

	page, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading page")
	}
	return toPageDTO(page), nil
}

func (s *service) ListPages(ctx context.Context) ([]PageDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing pages")
	}

	dtos := make([]PageDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *toPageDTO(&items[i]))
	}
	return dtos, nil
}

func toPageDTO(page *models.Page) *PageDTO {
	return &PageDTO{
		Slug:    page.Slug,
		Title:   page.Title,
		Content: page.Content,
		Sorting: page.Sorting,
	}
}
