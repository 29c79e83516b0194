package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for all entities. Rows are hard-deleted; there is
// no soft-delete column anywhere in the schema.
type Base struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// PublishBase adds the visibility flag shared by Location, Category and Post.
// The services default it to true on create; a column default would make it
// impossible to insert an unpublished row through GORM's zero-value handling.
type PublishBase struct {
	Base
	IsPublished bool `json:"is_published" gorm:"index"`
}
