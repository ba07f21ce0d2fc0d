package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a free-form label upserted by slug on first use.
type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null;size:30" json:"name"`
	Slug string    `gorm:"not null;size:40;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// AppTag associates a tag with a listing.
type AppTag struct {
	AppID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_app_tags_app_tag" json:"app_id"`
	TagID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_app_tags_app_tag" json:"tag_id"`
}
