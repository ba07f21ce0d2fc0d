package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is reference data seeded from categories.json at boot. End users
// never mutate it.
type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Slug         string    `gorm:"not null;size:100;uniqueIndex" json:"slug"`
	Description  string    `gorm:"size:500" json:"description"`
	Icon         string    `gorm:"size:50" json:"icon"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
