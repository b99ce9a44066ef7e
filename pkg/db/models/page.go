package models

import (
	"time"

	"github.com/google/uuid"
)

// Page holds static storefront content addressed by slug.
type Page struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content;not null;default:''"`
	Sorting   int       `gorm:"column:sorting;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
